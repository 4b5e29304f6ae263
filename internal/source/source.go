// Package source maps channel-native payloads (manual paste, email poll,
// feed poll, chat webhook) into the canonical domain.LeadItem. Adapters never
// reject sparse input: missing fields become empty strings so downstream
// consumers always receive a well-formed, if thin, record.
package source

import (
	"context"
	"time"

	"leadgate-engine/internal/domain"
)

// Sink is the downstream ingestion pipeline (dedup + persistence). The
// adapters call it once per item and propagate failure unchanged; retry
// policy, if any, lives on the other side of this boundary.
type Sink interface {
	Ingest(ctx context.Context, lead domain.LeadItem) error
}

// now is swappable for tests.
var now = func() time.Time { return time.Now().UTC() }

func newLead(src domain.Source, url, title, company string, raw any, meta map[string]any) domain.LeadItem {
	if meta == nil {
		meta = map[string]any{}
	}
	return domain.LeadItem{
		Source:     src,
		ReceivedAt: now(),
		URL:        url,
		Title:      title,
		Company:    company,
		Raw:        raw,
		Meta:       meta,
	}
}

// Forward builds nothing; it hands an already-built lead to the sink. Split
// out so batch constructors stay pure mappings.
func Forward(ctx context.Context, sink Sink, lead domain.LeadItem) error {
	return sink.Ingest(ctx, lead)
}
