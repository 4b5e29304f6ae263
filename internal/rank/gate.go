// Package rank decides whether a normalized lead is worth pursuing and which
// configured target profile it best matches. Evaluation is a pure function of
// its inputs; it holds no state and is safe for concurrent use.
package rank

import (
	"fmt"
	"math"
	"strings"

	"leadgate-engine/internal/textutil"
)

const (
	defaultMinJDChars      = 120
	defaultMinTargetSignal = 20

	maxBlockedInReason = 5
)

// Target is a configured role profile a lead is scored against. Targets with
// an empty ID are skipped during matching.
type Target struct {
	ID            string   `yaml:"id"`
	Name          string   `yaml:"name"`
	PrimaryRole   string   `yaml:"primary_role"`
	Must          []string `yaml:"must"`
	Nice          []string `yaml:"nice"`
	SeniorityPref string   `yaml:"seniority_pref"`
	LocationPref  string   `yaml:"location_pref"`
}

// Context is the ephemeral scoring view of a lead, built fresh per
// evaluation. All fields are optional free text.
type Context struct {
	RoleTitle string
	Location  string
	Seniority string
	JD        string
}

// Options tunes the gate. Nil thresholds take the defaults; set values are
// clamped into range. BlockedKeywords are normalized and de-duplicated
// before matching.
type Options struct {
	MinJDChars      *int
	MinTargetSignal *int
	BlockedKeywords []string
	Targets         []Target
}

// Effective echoes the thresholds an evaluation actually ran with.
type Effective struct {
	MinJDChars      int
	MinTargetSignal int
	BlockedKeywords []string
}

// TargetMatch names the best-scoring target and its 0-100 signal.
type TargetMatch struct {
	ID     string
	Signal int
}

// Result is the gate verdict. Reasons is empty iff Passed; Best is nil when
// no target with a non-empty ID was supplied.
type Result struct {
	Passed  bool
	Reasons []string
	Best    *TargetMatch
	Config  Effective
}

// Evaluate runs every gate check (no short-circuiting, so all applicable
// rejection reasons are reported) and returns the verdict.
func Evaluate(lead Context, opts Options) Result {
	eff := effectiveOptions(opts)

	roleTitle := textutil.NormalizeText(lead.RoleTitle)
	jd := textutil.NormalizeText(lead.JD)

	var reasons []string

	if roleTitle == "" && len(jd) < eff.MinJDChars {
		reasons = append(reasons, fmt.Sprintf("missing_core_text(min_jd_chars=%d)", eff.MinJDChars))
	}

	if matched := matchBlocked(roleTitle+" "+jd, eff.BlockedKeywords); len(matched) > 0 {
		if len(matched) > maxBlockedInReason {
			matched = matched[:maxBlockedInReason]
		}
		reasons = append(reasons, fmt.Sprintf("blocked_keywords(%s)", strings.Join(matched, ",")))
	}

	best := pickBestTarget(lead, opts.Targets)
	if best != nil && best.Signal < eff.MinTargetSignal {
		reasons = append(reasons, fmt.Sprintf("low_target_signal(%d<%d)", best.Signal, eff.MinTargetSignal))
	}

	return Result{
		Passed:  len(reasons) == 0,
		Reasons: reasons,
		Best:    best,
		Config:  eff,
	}
}

func effectiveOptions(opts Options) Effective {
	minJD := defaultMinJDChars
	if opts.MinJDChars != nil {
		minJD = *opts.MinJDChars
	}
	minSignal := defaultMinTargetSignal
	if opts.MinTargetSignal != nil {
		minSignal = *opts.MinTargetSignal
	}
	return Effective{
		MinJDChars:      textutil.ClampInt(minJD, 60, 2000),
		MinTargetSignal: textutil.ClampInt(minSignal, 0, 100),
		BlockedKeywords: textutil.NormalizeList(opts.BlockedKeywords),
	}
}

func matchBlocked(normText string, blocked []string) []string {
	var matched []string
	for _, kw := range blocked {
		if strings.Contains(normText, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}

// pickBestTarget scores every target with a non-empty ID and keeps the
// strictly greatest signal. Strict > means ties go to the first-seen target;
// that tie-break is observable behavior and must not change.
func pickBestTarget(lead Context, targets []Target) *TargetMatch {
	var best *TargetMatch
	for _, t := range targets {
		if strings.TrimSpace(t.ID) == "" {
			continue
		}
		s := TargetSignal(lead, t)
		if best == nil || s > best.Signal {
			best = &TargetMatch{ID: t.ID, Signal: s}
		}
	}
	return best
}

// TargetSignal computes the 0-100 weighted match between a lead context and
// one target. Deterministic; every term is clamped before summing.
func TargetSignal(lead Context, t Target) int {
	roleTitle := textutil.NormalizeText(lead.RoleTitle)
	jd := textutil.NormalizeText(lead.JD)
	seniority := textutil.NormalizeText(lead.Seniority)
	location := textutil.NormalizeText(lead.Location)

	signal := roleTokenTerm(roleTitle, jd, t)

	signal += textutil.ClampInt(8*textutil.KeywordOverlap(lead.JD, t.Must), 0, 24)
	signal += textutil.ClampInt(3*textutil.KeywordOverlap(lead.JD, t.Nice), 0, 12)

	if pref := textutil.NormalizeText(t.SeniorityPref); pref != "" {
		if strings.Contains(seniority, pref) || strings.Contains(jd, pref) {
			signal += 8
		}
	}
	if pref := textutil.NormalizeText(t.LocationPref); pref != "" {
		if strings.Contains(location, pref) || strings.Contains(jd, pref) {
			signal += 6
		}
	}

	return textutil.ClampInt(signal, 0, 100)
}

// roleTokenTerm scores overlap between the target's role words (len >= 3)
// and the lead's title or description, worth up to 50 points.
func roleTokenTerm(roleTitle, jd string, t Target) int {
	role := t.PrimaryRole
	if strings.TrimSpace(role) == "" {
		role = t.Name
	}

	var tokens []string
	for _, tok := range strings.Fields(textutil.NormalizeText(role)) {
		if len(tok) >= 3 {
			tokens = append(tokens, tok)
		}
	}
	if len(tokens) == 0 {
		return 0
	}

	hits := 0
	for _, tok := range tokens {
		if strings.Contains(roleTitle, tok) || strings.Contains(jd, tok) {
			hits++
		}
	}

	term := int(math.Round(float64(hits) / float64(len(tokens)) * 50))
	return textutil.ClampInt(term, 0, 50)
}
