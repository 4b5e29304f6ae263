package source

import (
	"strings"

	"leadgate-engine/internal/domain"
)

// ManualInput is a hand-pasted lead. Notes, when present, are kept verbatim
// as the raw payload.
type ManualInput struct {
	URL     string
	Title   string
	Company string
	Notes   string
}

// ManualLead builds one lead from a manual paste.
func ManualLead(in ManualInput) domain.LeadItem {
	var raw any
	if in.Notes != "" {
		raw = in.Notes
	}
	return newLead(domain.SourceManual, in.URL, in.Title, in.Company, raw, map[string]any{
		"entry": "paste",
	})
}

// ExistingRecord is a previously tracked lead for the same job posting,
// used as the fallback source of identity fields during a merge.
type ExistingRecord struct {
	URL     string
	Title   string
	Company string
	Status  string
}

// ManualMergeInput feeds ManualFromRecord: a cleaned job-description text
// plus the pre-existing record it should correlate with.
type ManualMergeInput struct {
	JDClean  string
	JobKey   string
	URL      string
	Title    string
	Company  string
	Existing ExistingRecord
}

// ManualFromRecord builds one lead from cleaned JD text merged over an
// existing record: URL/Title/Company fall back to the existing record's
// values when not separately supplied. The job key and the existing record's
// status travel in Meta so downstream can correlate with the prior lead.
func ManualFromRecord(in ManualMergeInput) domain.LeadItem {
	url := fallback(in.URL, in.Existing.URL)
	title := fallback(in.Title, in.Existing.Title)
	company := fallback(in.Company, in.Existing.Company)

	var raw any
	if in.JDClean != "" {
		raw = in.JDClean
	}

	return newLead(domain.SourceManual, url, title, company, raw, map[string]any{
		"entry":           "merge",
		"job_key":         in.JobKey,
		"existing_status": string(domain.NormalizeStatus(in.Existing.Status, domain.StatusNew)),
	})
}

func fallback(v, alt string) string {
	if strings.TrimSpace(v) != "" {
		return v
	}
	return alt
}
