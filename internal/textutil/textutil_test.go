package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "lowercases", input: "Senior Engineer", expected: "senior engineer"},
		{name: "collapses whitespace", input: "  a\t b\n\nc  ", expected: "a b c"},
		{name: "nbsp treated as space", input: "a\u00a0b", expected: "a b"},
		{name: "empty", input: "", expected: ""},
		{name: "only whitespace", input: " \t\n ", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeText(tt.input))
		})
	}
}

func TestNormalizeTextIdempotent(t *testing.T) {
	inputs := []string{"  Mixed   CASE text ", "already clean", "", "A B\tC"}
	for _, in := range inputs {
		once := NormalizeText(in)
		assert.Equal(t, once, NormalizeText(once))
	}
}

func TestNormalizeList(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "nil input", input: nil, expected: []string{}},
		{name: "drops empties", input: []string{"", "  ", "go"}, expected: []string{"go"}},
		{
			name:     "dedupes first seen order",
			input:    []string{"Go", "Rust", "go ", "RUST", "python"},
			expected: []string{"go", "rust", "python"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeList(tt.input))
		})
	}
}

func TestClampInt(t *testing.T) {
	assert.Equal(t, 60, ClampInt(0, 60, 2000))
	assert.Equal(t, 2000, ClampInt(9999, 60, 2000))
	assert.Equal(t, 120, ClampInt(120, 60, 2000))
	assert.Equal(t, 5, ClampInt(3, 5, 1)) // reversed range resolves to min
}

func TestKeywordOverlap(t *testing.T) {
	text := "We use Python, Rust and a bit of python tooling"

	assert.Equal(t, 0, KeywordOverlap("", []string{"python"}))
	assert.Equal(t, 0, KeywordOverlap(text, nil))
	assert.Equal(t, 1, KeywordOverlap(text, []string{"python", "PYTHON"}))
	assert.Equal(t, 2, KeywordOverlap(text, []string{"python", "rust"}))

	// monotonic in distinct matches
	assert.LessOrEqual(t,
		KeywordOverlap(text, []string{"python"}),
		KeywordOverlap(text, []string{"python", "rust"}),
	)
}
