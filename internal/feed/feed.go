// Package feed fetches and parses RSS 2.0 and Atom feeds into the flat item
// shape the rss source adapter consumes.
package feed

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Item is one feed entry with its description flattened to plain text.
type Item struct {
	GUID        string
	Title       string
	Link        string
	Description string
}

type Feed struct {
	Title string
	Items []Item
}

var httpClient = &http.Client{Timeout: 20 * time.Second}

// Fetch GETs the feed URL and parses the document.
func Fetch(ctx context.Context, url string) (Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Feed{}, fmt.Errorf("feed request: %w", err)
	}
	req.Header.Set("User-Agent", "leadgate-engine/1.0")

	resp, err := httpClient.Do(req)
	if err != nil {
		return Feed{}, fmt.Errorf("feed get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Feed{}, fmt.Errorf("feed get %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 5<<20))
	if err != nil {
		return Feed{}, fmt.Errorf("feed read %s: %w", url, err)
	}
	return Parse(body)
}

// rss2 / atom wire shapes, just enough fields for lead extraction.

type rss2Doc struct {
	XMLName xml.Name `xml:"rss"`
	Channel struct {
		Title string `xml:"title"`
		Items []struct {
			GUID        string `xml:"guid"`
			Title       string `xml:"title"`
			Link        string `xml:"link"`
			Description string `xml:"description"`
		} `xml:"item"`
	} `xml:"channel"`
}

type atomDoc struct {
	XMLName xml.Name `xml:"feed"`
	Title   string   `xml:"title"`
	Entries []struct {
		ID    string `xml:"id"`
		Title string `xml:"title"`
		Links []struct {
			Rel  string `xml:"rel,attr"`
			Href string `xml:"href,attr"`
		} `xml:"link"`
		Summary string `xml:"summary"`
		Content string `xml:"content"`
	} `xml:"entry"`
}

// Parse detects RSS 2.0 vs Atom by the root element and normalizes either
// into a Feed. Descriptions are stripped of HTML.
func Parse(body []byte) (Feed, error) {
	var probe struct {
		XMLName xml.Name
	}
	if err := xml.Unmarshal(body, &probe); err != nil {
		return Feed{}, fmt.Errorf("feed parse: %w", err)
	}

	switch probe.XMLName.Local {
	case "rss":
		var doc rss2Doc
		if err := xml.Unmarshal(body, &doc); err != nil {
			return Feed{}, fmt.Errorf("rss parse: %w", err)
		}
		f := Feed{Title: doc.Channel.Title}
		for _, it := range doc.Channel.Items {
			f.Items = append(f.Items, Item{
				GUID:        strings.TrimSpace(it.GUID),
				Title:       strings.TrimSpace(it.Title),
				Link:        strings.TrimSpace(it.Link),
				Description: StripHTML(it.Description),
			})
		}
		return f, nil

	case "feed":
		var doc atomDoc
		if err := xml.Unmarshal(body, &doc); err != nil {
			return Feed{}, fmt.Errorf("atom parse: %w", err)
		}
		f := Feed{Title: strings.TrimSpace(doc.Title)}
		for _, e := range doc.Entries {
			link := ""
			for _, l := range e.Links {
				if l.Rel == "" || l.Rel == "alternate" {
					link = l.Href
					break
				}
			}
			desc := e.Summary
			if desc == "" {
				desc = e.Content
			}
			f.Items = append(f.Items, Item{
				GUID:        strings.TrimSpace(e.ID),
				Title:       strings.TrimSpace(e.Title),
				Link:        strings.TrimSpace(link),
				Description: StripHTML(desc),
			})
		}
		return f, nil
	}

	return Feed{}, fmt.Errorf("feed parse: unsupported root element %q", probe.XMLName.Local)
}

// StripHTML flattens markup in a feed description to readable text.
func StripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
