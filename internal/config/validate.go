package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string
	Warnings []string
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a cleaned copy of cfg plus everything wrong
// or suspicious about it. Gate thresholds are not clamped here; the gate
// clamps its own inputs.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Email.SearchSubjectAny = trimList(out.Email.SearchSubjectAny)
	out.Gate.BlockedKeywords = trimList(out.Gate.BlockedKeywords)

	// polling sanity
	if out.Email.Enabled {
		if out.Polling.EmailSeconds <= 0 {
			res.addErr("polling.email_seconds must be > 0 when email is enabled")
		} else if out.Polling.EmailSeconds < 10 {
			res.addWarn("polling.email_seconds is very low (%d) and may hit provider rate limits", out.Polling.EmailSeconds)
		}
	}
	if out.Feeds.Enabled && out.Polling.FeedSeconds <= 0 {
		res.addErr("polling.feed_seconds must be > 0 when feeds are enabled")
	}

	// email required fields if enabled (password lives in the keyring)
	if out.Email.Enabled {
		if strings.TrimSpace(out.Email.IMAPHost) == "" {
			res.addErr("email.imap_host is required when email.enabled=true")
		}
		if strings.TrimSpace(out.Email.Username) == "" {
			res.addErr("email.username is required when email.enabled=true")
		}
		if strings.TrimSpace(out.Email.Mailbox) == "" {
			out.Email.Mailbox = "INBOX"
		}
		if len(out.Email.SearchSubjectAny) == 0 {
			res.addWarn("email.search_subject_any is empty; every unseen email will be scanned")
		}
	}

	if out.Feeds.Enabled && len(out.Feeds.Sources) == 0 {
		res.addWarn("feeds.enabled is true but feeds.sources is empty")
	}
	for i, f := range out.Feeds.Sources {
		if strings.TrimSpace(f.URL) == "" {
			res.addErr("feeds.sources[%d].url is empty", i)
		}
	}

	// gate threshold sanity (values outside range still work, the gate
	// clamps them; warn so the operator is not surprised)
	if out.Gate.MinJDChars != nil && (*out.Gate.MinJDChars < 60 || *out.Gate.MinJDChars > 2000) {
		res.addWarn("gate.min_jd_chars=%d is outside [60,2000] and will be clamped", *out.Gate.MinJDChars)
	}
	if out.Gate.MinTargetSignal != nil && (*out.Gate.MinTargetSignal < 0 || *out.Gate.MinTargetSignal > 100) {
		res.addWarn("gate.min_target_signal=%d is outside [0,100] and will be clamped", *out.Gate.MinTargetSignal)
	}

	// target profiles: ids are identity keys
	seenIDs := map[string]bool{}
	for i, t := range out.Targets {
		id := strings.TrimSpace(t.ID)
		if id == "" {
			res.addWarn("targets[%d] has an empty id and will be ignored by matching", i)
			continue
		}
		if seenIDs[id] {
			res.addErr("duplicate target id %q", id)
		}
		seenIDs[id] = true
	}

	return out, res
}
