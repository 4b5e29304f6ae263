package mailbox

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"leadgate-engine/internal/source"
)

var urlRe = regexp.MustCompile(`https?://[^\s<>"']+`)

// noise links that never point at a job posting
var urlDeny = []string{
	"unsubscribe",
	"preferences",
	"privacy",
	"terms",
	"view-in-browser",
	"mailto:",
}

// Record reduces a fetched message to the email record the gmail adapter
// consumes: decoded subject, readable body text and the first plausible job
// URL found in the body.
func Record(m Message) source.EmailInput {
	msgID, body, subject := parseRFC822(m.Raw, m.Subject)

	emailID := msgID
	if emailID == "" {
		emailID = fmt.Sprintf("uid:%d", m.UID)
	}

	return source.EmailInput{
		EmailID: emailID,
		From:    m.From,
		Subject: decodeRFC2047(subject),
		Body:    body,
		URL:     firstJobURL(body),
	}
}

// Records maps every fetched message, preserving order.
func Records(msgs []Message) source.EmailPollResult {
	res := source.EmailPollResult{Emails: make([]source.EmailInput, 0, len(msgs))}
	for _, m := range msgs {
		res.Emails = append(res.Emails, Record(m))
	}
	return res
}

// parseRFC822 pulls the message id, a readable body and the subject out of
// raw message bytes. HTML bodies are flattened to text; a broken message
// degrades to its raw bytes rather than erroring.
func parseRFC822(raw []byte, fallbackSubject string) (messageID, bodyText, subject string) {
	if len(raw) == 0 {
		return "", "", fallbackSubject
	}

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return "", string(raw), fallbackSubject
	}

	messageID = strings.TrimSpace(msg.Header.Get("Message-Id"))
	if messageID == "" {
		messageID = strings.TrimSpace(msg.Header.Get("Message-ID"))
	}
	subject = strings.TrimSpace(msg.Header.Get("Subject"))
	if subject == "" {
		subject = fallbackSubject
	}

	bodyRaw, _ := io.ReadAll(io.LimitReader(msg.Body, 5<<20))
	plain, htmlPart := textParts(msg.Header.Get("Content-Type"), msg.Header.Get("Content-Transfer-Encoding"), bodyRaw)

	switch {
	case plain != "":
		bodyText = plain
		if htmlPart != "" {
			// keep links that only exist as hrefs in the html part
			bodyText += "\n" + htmlLinks(htmlPart)
		}
	case htmlPart != "":
		bodyText = HTMLToText(htmlPart) + "\n" + htmlLinks(htmlPart)
	default:
		bodyText = string(bodyRaw)
	}

	return messageID, bodyText, subject
}

// textParts walks a (possibly multipart) body and returns the largest
// text/plain and text/html parts found.
func textParts(contentType, cte string, body []byte) (plain, htmlPart string) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return string(decodeCTE(body, cte)), ""
	}
	mediaType = strings.ToLower(mediaType)

	if strings.HasPrefix(mediaType, "multipart/") {
		boundary := params["boundary"]
		if boundary == "" {
			return string(decodeCTE(body, cte)), ""
		}

		mr := multipart.NewReader(bytes.NewReader(body), boundary)
		for {
			p, err := mr.NextPart()
			if err != nil {
				break
			}
			b, _ := io.ReadAll(io.LimitReader(p, 3<<20))
			pl, ht := textParts(p.Header.Get("Content-Type"), p.Header.Get("Content-Transfer-Encoding"), b)
			if len(pl) > len(plain) {
				plain = pl
			}
			if len(ht) > len(htmlPart) {
				htmlPart = ht
			}
		}
		return plain, htmlPart
	}

	s := string(decodeCTE(body, strings.ToLower(strings.TrimSpace(cte))))
	if strings.HasPrefix(mediaType, "text/html") {
		return "", s
	}
	return s, ""
}

func decodeCTE(b []byte, cte string) []byte {
	switch cte {
	case "base64":
		out, _ := io.ReadAll(io.LimitReader(base64.NewDecoder(base64.StdEncoding, bytes.NewReader(b)), 5<<20))
		return out
	case "quoted-printable":
		out, _ := io.ReadAll(io.LimitReader(quotedprintable.NewReader(bytes.NewReader(b)), 5<<20))
		return out
	default:
		return b
	}
}

// HTMLToText flattens an HTML fragment to its visible text.
func HTMLToText(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	doc.Find("script,style").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// htmlLinks returns the href targets of an HTML fragment, one per line.
func htmlLinks(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return ""
	}
	var links []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok {
			links = append(links, href)
		}
	})
	return strings.Join(links, "\n")
}

// firstJobURL returns the first URL in text that does not look like list
// noise (unsubscribe, preferences, ...).
func firstJobURL(text string) string {
	for _, u := range urlRe.FindAllString(text, -1) {
		u = strings.TrimRight(u, ".,);:]\"'")
		low := strings.ToLower(u)
		denied := false
		for _, d := range urlDeny {
			if strings.Contains(low, d) {
				denied = true
				break
			}
		}
		if !denied {
			return u
		}
	}
	return ""
}

func decodeRFC2047(s string) string {
	dec := new(mime.WordDecoder)
	out, err := dec.DecodeHeader(s)
	if err != nil {
		return s
	}
	return out
}
