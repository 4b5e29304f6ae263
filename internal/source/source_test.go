package source

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadgate-engine/internal/domain"
)

func fixedNow(t *testing.T) time.Time {
	t.Helper()
	at := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	orig := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = orig })
	return at
}

func TestManualLead(t *testing.T) {
	at := fixedNow(t)

	lead := ManualLead(ManualInput{
		URL:     "https://example.com/job",
		Title:   "Platform Engineer",
		Company: "Acme",
		Notes:   "looks promising",
	})

	assert.Equal(t, domain.SourceManual, lead.Source)
	assert.Equal(t, at, lead.ReceivedAt)
	assert.Equal(t, "https://example.com/job", lead.URL)
	assert.Equal(t, "looks promising", lead.Raw)
}

func TestManualLeadEmptyNotesRawNil(t *testing.T) {
	lead := ManualLead(ManualInput{Title: "t"})
	assert.Nil(t, lead.Raw)
	assert.Equal(t, "", lead.URL)
	assert.Equal(t, "", lead.Company)
}

func TestManualFromRecordMerges(t *testing.T) {
	lead := ManualFromRecord(ManualMergeInput{
		JDClean: "long cleaned jd text",
		JobKey:  "job-123",
		Title:   "Override Title",
		Existing: ExistingRecord{
			URL:     "https://old.example.com",
			Title:   "Old Title",
			Company: "OldCo",
			Status:  "shortlisted",
		},
	})

	// explicit fields win, the rest falls back to the existing record
	assert.Equal(t, "Override Title", lead.Title)
	assert.Equal(t, "https://old.example.com", lead.URL)
	assert.Equal(t, "OldCo", lead.Company)
	assert.Equal(t, "long cleaned jd text", lead.Raw)
	assert.Equal(t, "job-123", lead.Meta["job_key"])
	assert.Equal(t, "SHORTLISTED", lead.Meta["existing_status"])
}

func TestManualFromRecordBogusStatusDefaults(t *testing.T) {
	lead := ManualFromRecord(ManualMergeInput{Existing: ExistingRecord{Status: "whatever"}})
	assert.Equal(t, "NEW", lead.Meta["existing_status"])
}

func TestEmailLead(t *testing.T) {
	lead := EmailLead(EmailInput{
		EmailID: "em-1",
		From:    "jobs@acme.example",
		Subject: "Hiring: Platform Engineer",
		Body:    "body text",
		URL:     "https://acme.example/apply",
	})

	assert.Equal(t, domain.SourceGmail, lead.Source)
	assert.Equal(t, "Hiring: Platform Engineer", lead.Title) // subject fallback
	raw, ok := lead.Raw.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "em-1", raw["emailId"])
	assert.Equal(t, "body text", raw["body"])
	assert.Equal(t, "em-1", lead.Meta["email_id"])
}

func TestEmailLeadsFromPoll(t *testing.T) {
	res := EmailPollResult{Emails: []EmailInput{
		{EmailID: "a", Subject: "first"},
		{}, // entirely empty record still yields a lead
		{EmailID: "c", Subject: "third"},
	}}

	leads := EmailLeadsFromPoll(res)
	require.Len(t, leads, 3)
	assert.Equal(t, "first", leads[0].Title)
	assert.Equal(t, "", leads[1].Title)
	assert.Equal(t, "third", leads[2].Title)
	for _, l := range leads {
		assert.Equal(t, domain.SourceGmail, l.Source)
		assert.False(t, l.ReceivedAt.IsZero())
	}
}

func TestEmailLeadsFromPollEmpty(t *testing.T) {
	assert.Empty(t, EmailLeadsFromPoll(EmailPollResult{}))
}

func TestFeedLead(t *testing.T) {
	lead := FeedLead(FeedInput{
		FeedURL:     "https://blog.example/feed.xml",
		ItemURL:     "https://blog.example/job-1",
		Title:       "We're hiring",
		Description: "desc",
		Company:     "Blog Example",
	})

	assert.Equal(t, domain.SourceRSS, lead.Source)
	assert.Equal(t, "https://blog.example/job-1", lead.URL)
	raw, ok := lead.Raw.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "https://blog.example/feed.xml", raw["feedUrl"])
	assert.Equal(t, "desc", raw["description"])
}

func TestChatLead(t *testing.T) {
	lead := ChatLead(ChatInput{
		Message:   "found this role",
		Sender:    "14155550100",
		MessageID: "msg-1",
		Channel:   "whatsapp",
		HasMedia:  true,
	})

	assert.Equal(t, domain.SourceVonage, lead.Source)
	assert.Equal(t, "found this role", lead.Title) // message fallback
	assert.Equal(t, "whatsapp", lead.Meta["channel"])
	assert.Equal(t, true, lead.Meta["has_media"])
}

func TestVonageLeadsFromWebhook(t *testing.T) {
	payload := map[string]any{
		"message_uuid": "uuid-1",
		"from":         "14155550100",
		"channel":      "sms",
		"text":         "check https://acme.example/job",
	}

	leads := VonageLeadsFromWebhook(payload)
	require.Len(t, leads, 1)
	assert.Equal(t, "check https://acme.example/job", leads[0].Title)
	assert.Equal(t, "uuid-1", leads[0].Meta["message_id"])
}

func TestVonageLeadsFromWebhookMediaOnly(t *testing.T) {
	payload := map[string]any{
		"message_uuid": "uuid-2",
		"from":         "14155550100",
		"channel":      "mms",
		"image":        map[string]any{"url": "https://media.example/a.jpg"},
	}

	// media with no text or subject produces zero items, by contract
	assert.Empty(t, VonageLeadsFromWebhook(payload))
}

func TestVonageLeadsFromWebhookSubjectOnly(t *testing.T) {
	leads := VonageLeadsFromWebhook(map[string]any{"subject": "Platform role"})
	require.Len(t, leads, 1)
	assert.Equal(t, "Platform role", leads[0].Title)
}

func TestVonageLeadsFromWebhookWhitespaceText(t *testing.T) {
	assert.Empty(t, VonageLeadsFromWebhook(map[string]any{"text": "   \n "}))
}

func TestDecodeWebhookMediaFlag(t *testing.T) {
	p, err := DecodeWebhook(map[string]any{"text": "hi", "audio": map[string]any{"url": "x"}})
	require.NoError(t, err)
	assert.True(t, p.HasMedia)
	assert.Equal(t, "hi", p.Text)
}
