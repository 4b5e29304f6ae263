package source

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"leadgate-engine/internal/domain"
	"leadgate-engine/internal/textutil"
)

// ChatInput is one inbound chat message already reduced to adapter fields.
type ChatInput struct {
	Message   string
	Sender    string
	MessageID string
	Channel   string
	URL       string
	Title     string
	Company   string
	HasMedia  bool
	RawBody   string
}

// ChatLead builds one lead from an inbound chat message. The message text
// doubles as the title when no explicit title was extracted.
func ChatLead(in ChatInput) domain.LeadItem {
	title := in.Title
	if title == "" {
		title = in.Message
	}
	raw := map[string]any{
		"message":   in.Message,
		"sender":    in.Sender,
		"messageId": in.MessageID,
		"rawBody":   in.RawBody,
		"hasMedia":  in.HasMedia,
	}
	return newLead(domain.SourceVonage, in.URL, title, in.Company, raw, map[string]any{
		"channel":    in.Channel,
		"message_id": in.MessageID,
		"has_media":  in.HasMedia,
	})
}

// WebhookPayload is the decoded inbound-messages callback body. Field names
// follow the provider's wire shape; everything is optional.
type WebhookPayload struct {
	MessageUUID string `mapstructure:"message_uuid"`
	From        string `mapstructure:"from"`
	Channel     string `mapstructure:"channel"`
	MessageType string `mapstructure:"message_type"`
	Message     string `mapstructure:"message"`
	Text        string `mapstructure:"text"`
	Body        string `mapstructure:"body"`
	Subject     string `mapstructure:"subject"`
	URL         string `mapstructure:"url"`
	Title       string `mapstructure:"title"`
	Company     string `mapstructure:"company"`

	HasMedia bool `mapstructure:"-"`
}

// mediaKeys are payload members whose presence marks a media message.
var mediaKeys = []string{"image", "audio", "video", "file", "vcard", "location"}

// DecodeWebhook turns the loose JSON body of an inbound webhook into a typed
// payload. Weak typing absorbs numbers-as-strings and similar provider
// quirks rather than erroring.
func DecodeWebhook(raw map[string]any) (WebhookPayload, error) {
	var p WebhookPayload
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &p,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return p, fmt.Errorf("webhook decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return p, fmt.Errorf("webhook decode: %w", err)
	}
	for _, k := range mediaKeys {
		if v, ok := raw[k]; ok && v != nil {
			p.HasMedia = true
			break
		}
	}
	return p, nil
}

// VonageLeadsFromWebhook builds leads from an inbound webhook payload. Only
// payloads carrying non-empty message text or a subject produce an item;
// media-only payloads yield zero items on purpose. Undecodable payloads also
// yield zero items rather than an error.
func VonageLeadsFromWebhook(raw map[string]any) []domain.LeadItem {
	p, err := DecodeWebhook(raw)
	if err != nil {
		return []domain.LeadItem{}
	}

	text := firstNonEmpty(p.Message, p.Text, p.Body)
	if textutil.NormalizeText(text) == "" && textutil.NormalizeText(p.Subject) == "" {
		return []domain.LeadItem{}
	}

	title := p.Title
	if title == "" {
		title = p.Subject
	}

	// keep the wire body for audit/replay
	body, _ := json.Marshal(raw)

	return []domain.LeadItem{ChatLead(ChatInput{
		Message:   text,
		Sender:    p.From,
		MessageID: p.MessageUUID,
		Channel:   p.Channel,
		URL:       p.URL,
		Title:     title,
		Company:   p.Company,
		HasMedia:  p.HasMedia,
		RawBody:   string(body),
	})}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
