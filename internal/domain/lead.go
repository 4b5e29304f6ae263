package domain

import "time"

// Source tags where a lead came from. Immutable once set.
type Source string

const (
	SourceManual Source = "manual"
	SourceGmail  Source = "gmail"
	SourceRSS    Source = "rss"
	SourceVonage Source = "vonage"
)

// LeadItem is the canonical record every ingestion channel reduces to.
// URL/Title/Company degrade to empty strings rather than being absent;
// Raw keeps the channel-native payload (string or map) for audit/replay.
type LeadItem struct {
	Source     Source
	ReceivedAt time.Time
	URL        string
	Title      string
	Company    string
	Raw        any
	Meta       map[string]any
}
