// Package poll drives the periodic ingestion channels: it fetches from the
// mailbox and the configured feeds, maps results through the source
// adapters, runs each new lead through the gate and hands it to the sink.
package poll

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
	"go.uber.org/zap"

	"leadgate-engine/internal/config"
	"leadgate-engine/internal/domain"
	"leadgate-engine/internal/events"
	"leadgate-engine/internal/feed"
	"leadgate-engine/internal/mailbox"
	"leadgate-engine/internal/rank"
	"leadgate-engine/internal/secrets"
	"leadgate-engine/internal/source"
	"leadgate-engine/internal/store"
)

type Poller struct {
	Store   *store.Store
	Hub     *events.Hub
	Log     *zap.Logger
	Cfg     func() config.Config
	limiter *HostLimiter
}

func New(st *store.Store, hub *events.Hub, log *zap.Logger, cfg func() config.Config) *Poller {
	c := cfg()
	return &Poller{
		Store:   st,
		Hub:     hub,
		Log:     log,
		Cfg:     cfg,
		limiter: NewHostLimiter(c.Feeds.RequestsPerSec, c.Feeds.Burst),
	}
}

// RunEmailOnce polls the mailbox once: fetch unseen, filter by subject, map
// through the gmail adapter, gate and sink every lead, then mark the
// processed messages seen.
func (p *Poller) RunEmailOnce(ctx context.Context) (added int, err error) {
	cfg := p.Cfg()
	if !cfg.Email.Enabled {
		return 0, nil
	}
	if cfg.Email.IMAPHost == "" || cfg.Email.Username == "" {
		return 0, fmt.Errorf("email enabled but imap_host/username missing")
	}

	pass, err := secrets.GetIMAPPassword(secrets.IMAPKeyringAccount(cfg))
	if err != nil {
		return 0, err
	}

	addr := cfg.Email.IMAPHost
	if !strings.Contains(addr, ":") {
		port := cfg.Email.IMAPPort
		if port == 0 {
			port = 993
		}
		addr = fmt.Sprintf("%s:%d", addr, port)
	}

	ctx, cancel := context.WithTimeout(ctx, 25*time.Second)
	defer cancel()

	c, err := mailbox.DialAndLogin(ctx, addr, cfg.Email.Username, pass)
	if err != nil {
		return 0, err
	}
	defer mailbox.LogoutAndClose(c)

	if err := mailbox.SelectMailbox(c, cfg.Email.Mailbox); err != nil {
		return 0, err
	}

	msgs, err := mailbox.FetchUnseen(ctx, c, cfg.Email.MaxEmails)
	if err != nil {
		return 0, err
	}
	if len(msgs) == 0 {
		return 0, nil
	}

	res := mailbox.Records(msgs)
	if len(cfg.Email.SearchSubjectAny) > 0 {
		kept := res.Emails[:0]
		for _, em := range res.Emails {
			if containsAnyCI(em.Subject, cfg.Email.SearchSubjectAny) {
				kept = append(kept, em)
			}
		}
		res.Emails = kept
	}

	for _, lead := range source.EmailLeadsFromPoll(res) {
		ok, perr := p.Process(ctx, lead)
		if perr != nil {
			return added, perr
		}
		if ok {
			added++
		}
	}

	// every fetched message was considered; don't re-read them next cycle
	seen := make([]imap.UID, 0, len(msgs))
	for _, m := range msgs {
		seen = append(seen, m.UID)
	}
	if err := mailbox.MarkSeen(c, seen); err != nil {
		return added, err
	}
	return added, nil
}

// RunFeedsOnce polls every configured feed once.
func (p *Poller) RunFeedsOnce(ctx context.Context) (added int, err error) {
	cfg := p.Cfg()
	if !cfg.Feeds.Enabled {
		return 0, nil
	}

	for _, f := range cfg.Feeds.Sources {
		if err := p.limiter.WaitURL(ctx, f.URL); err != nil {
			return added, err
		}

		parsed, ferr := feed.Fetch(ctx, f.URL)
		if ferr != nil {
			// one broken feed must not starve the others
			p.Log.Warn("feed fetch failed", zap.String("url", f.URL), zap.Error(ferr))
			continue
		}

		for _, it := range parsed.Items {
			lead := source.FeedLead(source.FeedInput{
				FeedURL:     f.URL,
				ItemURL:     it.Link,
				Title:       it.Title,
				Description: it.Description,
				Company:     f.Company,
			})
			ok, perr := p.Process(ctx, lead)
			if perr != nil {
				return added, perr
			}
			if ok {
				added++
			}
		}
	}
	return added, nil
}

// Process gates one lead and persists it. Returns whether the lead was new.
// Duplicate leads are skipped without re-scoring; sink failures propagate.
func (p *Poller) Process(ctx context.Context, lead domain.LeadItem) (bool, error) {
	cfg := p.Cfg()

	id, addedNew, err := p.Store.InsertLeadIfNew(ctx, lead)
	if err != nil {
		return false, err
	}
	if !addedNew {
		return false, nil
	}
	p.Hub.Publish(events.Make(events.TypeLeadAdded, map[string]any{
		"id":     id,
		"source": string(lead.Source),
		"title":  lead.Title,
	}))

	res := rank.Evaluate(LeadContext(lead), cfg.GateOptions())
	if err := p.Store.ApplyVerdict(ctx, id, res); err != nil {
		return true, err
	}

	if res.Passed {
		fields := []zap.Field{zap.String("id", id), zap.String("title", lead.Title)}
		data := map[string]any{"id": id}
		if res.Best != nil {
			fields = append(fields, zap.String("target", res.Best.ID), zap.Int("signal", res.Best.Signal))
			data["target"] = res.Best.ID
			data["signal"] = res.Best.Signal
		}
		p.Log.Info("lead passed gate", fields...)
		p.Hub.Publish(events.Make(events.TypeLeadScored, data))
	} else {
		p.Log.Debug("lead rejected",
			zap.String("id", id),
			zap.Strings("reasons", res.Reasons),
		)
	}
	return true, nil
}

// LeadContext builds the ephemeral scoring view of a canonical lead. The
// job-description text comes from wherever the channel stashed it in Raw.
func LeadContext(lead domain.LeadItem) rank.Context {
	jd := ""
	switch raw := lead.Raw.(type) {
	case string:
		jd = raw
	case map[string]any:
		for _, k := range []string{"body", "description", "message"} {
			if v, ok := raw[k].(string); ok && v != "" {
				jd = v
				break
			}
		}
	}
	return rank.Context{
		RoleTitle: lead.Title,
		JD:        jd,
	}
}

func containsAnyCI(s string, needles []string) bool {
	low := strings.ToLower(s)
	for _, n := range needles {
		if n == "" {
			continue
		}
		if strings.Contains(low, strings.ToLower(n)) {
			return true
		}
	}
	return false
}
