package source

import "leadgate-engine/internal/domain"

// FeedInput is one item from a polled RSS/Atom feed.
type FeedInput struct {
	FeedURL     string
	ItemURL     string
	Title       string
	Description string
	Company     string
}

// FeedLead builds one lead from a feed item. Raw keeps the feed URL and the
// item description for replay; there is no batch variant, feed pollers loop
// items themselves.
func FeedLead(in FeedInput) domain.LeadItem {
	raw := map[string]any{
		"feedUrl":     in.FeedURL,
		"description": in.Description,
	}
	return newLead(domain.SourceRSS, in.ItemURL, in.Title, in.Company, raw, map[string]any{
		"feed_url": in.FeedURL,
	})
}
