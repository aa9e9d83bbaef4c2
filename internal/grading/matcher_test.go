package grading

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  PARIS ", "paris"},
		{"New\t\tYork  City", "new york city"},
		{"\n\n", ""},
		{"a b", "a b"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Normalize(tc.in), "Normalize(%q)", tc.in)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, s := range []string{"  Hello   World ", "ÉCOLE", "x  y", "", "already normal"} {
		once := Normalize(s)
		assert.Equal(t, once, Normalize(once), "input %q", s)
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name     string
		entered  string
		accepted []string
		want     bool
	}{
		{"case and spaces", "  PARIS ", []string{"Paris", "paris"}, true},
		{"alternate answer", "kitten", []string{"cat", "kitten"}, true},
		{"internal whitespace", "ice   cream", []string{"Ice cream"}, true},
		{"wrong", "dog", []string{"cat"}, false},
		{"empty input", "", []string{"cat"}, false},
		{"blank input", "   ", []string{"cat"}, false},
		{"empty accepted answer never matches empty input", "", []string{""}, false},
		{"no accepted answers", "cat", nil, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Matches(tc.entered, tc.accepted))
		})
	}
}

func TestMatcherCaseSensitive(t *testing.T) {
	m := NewMatcher(WithCaseSensitive(true))
	assert.True(t, m.Matches(" Paris ", []string{"Paris"}))
	assert.False(t, m.Matches("paris", []string{"Paris"}))
}

func TestMatcherSpellingTolerance(t *testing.T) {
	accepted := []string{"elephant"}

	strict := NewMatcher()
	assert.Equal(t, Result{}, strict.Match("elefant", accepted))

	warn := NewMatcher(WithSpellingTolerance(SpellingWarn, 0))
	res := warn.Match("elephnt", accepted)
	assert.False(t, res.Correct)
	assert.True(t, res.Typo)
	assert.Equal(t, "elephant", res.Matched)

	accept := NewMatcher(WithSpellingTolerance(SpellingAccept, 2))
	res = accept.Match("elefant", accepted)
	assert.True(t, res.Correct)
	assert.True(t, res.Typo)

	// short answers are not eligible
	res = accept.Match("bat", []string{"cat"})
	assert.False(t, res.Correct)
	assert.False(t, res.Typo)

	// exact match wins over typo
	res = accept.Match("Elephant", accepted)
	assert.True(t, res.Correct)
	assert.False(t, res.Typo)
}

func TestMatcherSkipsDistantLengths(t *testing.T) {
	m := NewMatcher(WithSpellingTolerance(SpellingWarn, 2))
	accepted := []string{"elephant"}

	res := m.Match(strings.Repeat("a", 1<<16), accepted)
	assert.Equal(t, Result{}, res)

	res = m.Match("elephantine", accepted)
	assert.False(t, res.Typo, "three runes longer")

	res = m.Match("elephantss", accepted)
	assert.True(t, res.Typo, "two runes longer")

	res = m.Match("elepha", accepted)
	assert.True(t, res.Typo, "two runes shorter")
}

func BenchmarkMatchLongInput(b *testing.B) {
	m := NewMatcher(WithSpellingTolerance(SpellingAccept, 3))
	in := strings.Repeat("x", 1<<16)
	accepted := []string{"elephant", "pachyderm"}
	for b.Loop() {
		m.Match(in, accepted)
	}
}

func TestParseSpellingMode(t *testing.T) {
	m, err := ParseSpellingMode("")
	require.NoError(t, err)
	assert.Equal(t, SpellingStrict, m)

	m, err = ParseSpellingMode("accept")
	require.NoError(t, err)
	assert.Equal(t, SpellingAccept, m)

	_, err = ParseSpellingMode("loose")
	assert.Error(t, err)
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, levenshtein("abc", "abc"))
	assert.Equal(t, 3, levenshtein("", "abc"))
	assert.Equal(t, 1, levenshtein("kitten", "sitten"))
	assert.Equal(t, 3, levenshtein("kitten", "sitting"))
}
