package source

import "leadgate-engine/internal/domain"

// EmailInput is one polled email already reduced to the fields the adapter
// cares about.
type EmailInput struct {
	EmailID string
	From    string
	Subject string
	Body    string
	URL     string
	Title   string
	Company string
}

// EmailPollResult is what a mailbox poll hands the batch constructor.
type EmailPollResult struct {
	Emails []EmailInput
}

// EmailLead builds one lead from a polled email. The subject doubles as the
// title when no explicit title was extracted.
func EmailLead(in EmailInput) domain.LeadItem {
	title := in.Title
	if title == "" {
		title = in.Subject
	}
	raw := map[string]any{
		"emailId": in.EmailID,
		"from":    in.From,
		"subject": in.Subject,
		"body":    in.Body,
		"url":     in.URL,
		"title":   in.Title,
		"company": in.Company,
	}
	return newLead(domain.SourceGmail, in.URL, title, in.Company, raw, map[string]any{
		"email_id": in.EmailID,
		"from":     in.From,
	})
}

// EmailLeadsFromPoll maps every email record in a poll result to a lead,
// preserving input order. Missing sub-fields default to empty strings.
func EmailLeadsFromPoll(res EmailPollResult) []domain.LeadItem {
	out := make([]domain.LeadItem, 0, len(res.Emails))
	for _, em := range res.Emails {
		out = append(out, EmailLead(em))
	}
	return out
}
