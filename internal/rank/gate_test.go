package rank

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestEvaluateMissingCoreText(t *testing.T) {
	res := Evaluate(Context{JD: strings.Repeat("x", 50)}, Options{})

	assert.False(t, res.Passed)
	require.Len(t, res.Reasons, 1)
	assert.Equal(t, "missing_core_text(min_jd_chars=120)", res.Reasons[0])
	assert.Equal(t, 120, res.Config.MinJDChars)
}

func TestEvaluateRoleTitleSkipsLengthCheck(t *testing.T) {
	res := Evaluate(Context{RoleTitle: "Platform Engineer", JD: "short"}, Options{})
	assert.True(t, res.Passed)
	assert.Empty(t, res.Reasons)
}

func TestEvaluateBlockedKeywords(t *testing.T) {
	jd := strings.Repeat("great role working with kubernetes. ", 10) + "We are a staffing agency."

	res := Evaluate(Context{RoleTitle: "SRE", JD: jd}, Options{
		BlockedKeywords: []string{"Staffing", "staffing", "crypto"},
	})

	assert.False(t, res.Passed)
	require.Len(t, res.Reasons, 1)
	assert.Equal(t, "blocked_keywords(staffing)", res.Reasons[0])
}

func TestEvaluateBlockedKeywordsCapsAtFive(t *testing.T) {
	jd := "a1 b2 c3 d4 e5 f6 all present in the description text"
	res := Evaluate(Context{RoleTitle: "x", JD: jd}, Options{
		BlockedKeywords: []string{"a1", "b2", "c3", "d4", "e5", "f6"},
	})

	require.Len(t, res.Reasons, 1)
	assert.Equal(t, "blocked_keywords(a1,b2,c3,d4,e5)", res.Reasons[0])
}

func TestEvaluateReportsAllReasons(t *testing.T) {
	res := Evaluate(Context{JD: "staffing"}, Options{
		BlockedKeywords: []string{"staffing"},
		Targets:         []Target{{ID: "t1", PrimaryRole: "platform engineer"}},
	})

	assert.False(t, res.Passed)
	require.Len(t, res.Reasons, 3)
	assert.Contains(t, res.Reasons[0], "missing_core_text")
	assert.Contains(t, res.Reasons[1], "blocked_keywords")
	assert.Contains(t, res.Reasons[2], "low_target_signal")
}

func TestEvaluateNoTargets(t *testing.T) {
	res := Evaluate(Context{RoleTitle: "Engineer", JD: strings.Repeat("kubernetes ", 30)}, Options{})

	assert.True(t, res.Passed)
	assert.Nil(t, res.Best)
}

func TestPickBestTargetInvalidTargets(t *testing.T) {
	assert.Nil(t, pickBestTarget(Context{}, nil))
	assert.Nil(t, pickBestTarget(Context{}, []Target{{ID: ""}, {ID: "   "}}))
}

func TestPickBestTargetFirstSeenWinsTies(t *testing.T) {
	lead := Context{RoleTitle: "platform engineer", JD: "platform engineer role"}
	targets := []Target{
		{ID: "first", PrimaryRole: "platform engineer"},
		{ID: "second", PrimaryRole: "platform engineer"},
	}

	best := pickBestTarget(lead, targets)
	require.NotNil(t, best)
	assert.Equal(t, "first", best.ID)
}

func TestEvaluateLowTargetSignal(t *testing.T) {
	res := Evaluate(Context{RoleTitle: "Accountant", JD: strings.Repeat("ledgers and books ", 20)}, Options{
		Targets: []Target{{ID: "eng", PrimaryRole: "platform engineer", Must: []string{"kubernetes"}}},
	})

	assert.False(t, res.Passed)
	require.Len(t, res.Reasons, 1)
	assert.Equal(t, "low_target_signal(0<20)", res.Reasons[0])
	require.NotNil(t, res.Best)
	assert.Equal(t, "eng", res.Best.ID)
	assert.Equal(t, 0, res.Best.Signal)
}

func TestTargetSignalMustKeywords(t *testing.T) {
	lead := Context{JD: "We need python and rust experience"}
	target := Target{ID: "t", Must: []string{"python", "rust"}}

	// no role tokens configured, no nice/seniority/location prefs
	assert.Equal(t, 16, TargetSignal(lead, target))
}

func TestTargetSignalMustSaturatesAtThree(t *testing.T) {
	lead := Context{JD: "python rust go java kotlin"}
	target := Target{ID: "t", Must: []string{"python", "rust", "go", "java", "kotlin"}}

	assert.Equal(t, 24, TargetSignal(lead, target))
}

func TestTargetSignalAllTerms(t *testing.T) {
	lead := Context{
		RoleTitle: "Senior Platform Engineer",
		Location:  "Berlin, Germany",
		Seniority: "senior",
		JD:        "Platform engineer role. Kubernetes and terraform required, grafana nice.",
	}
	target := Target{
		ID:            "plat",
		PrimaryRole:   "Platform Engineer",
		Must:          []string{"kubernetes", "terraform"},
		Nice:          []string{"grafana"},
		SeniorityPref: "senior",
		LocationPref:  "berlin",
	}

	// role 50 + must 16 + nice 3 + seniority 8 + location 6
	assert.Equal(t, 83, TargetSignal(lead, target))
}

func TestTargetSignalBounds(t *testing.T) {
	leads := []Context{
		{},
		{RoleTitle: "engineer"},
		{RoleTitle: "platform engineer", Location: "remote", Seniority: "senior",
			JD: "platform engineer kubernetes terraform grafana prometheus senior remote"},
	}
	targets := []Target{
		{ID: "a"},
		{ID: "b", Name: "platform engineer", Must: []string{"kubernetes", "terraform", "aws", "gcp"},
			Nice: []string{"grafana", "prometheus", "loki", "tempo", "jaeger"},
			SeniorityPref: "senior", LocationPref: "remote"},
	}

	for _, lead := range leads {
		for _, target := range targets {
			s := TargetSignal(lead, target)
			assert.GreaterOrEqual(t, s, 0)
			assert.LessOrEqual(t, s, 100)
		}
	}
}

func TestTargetSignalNameFallback(t *testing.T) {
	lead := Context{RoleTitle: "backend developer"}
	withRole := TargetSignal(lead, Target{ID: "t", PrimaryRole: "backend developer"})
	withName := TargetSignal(lead, Target{ID: "t", Name: "backend developer"})

	assert.Equal(t, withRole, withName)
	assert.Equal(t, 50, withName)
}

func TestEffectiveOptionsClamping(t *testing.T) {
	res := Evaluate(Context{RoleTitle: "x"}, Options{
		MinJDChars:      intPtr(10),
		MinTargetSignal: intPtr(500),
		BlockedKeywords: []string{" Spam ", "spam", ""},
	})

	assert.Equal(t, 60, res.Config.MinJDChars)
	assert.Equal(t, 100, res.Config.MinTargetSignal)
	assert.Equal(t, []string{"spam"}, res.Config.BlockedKeywords)
}
