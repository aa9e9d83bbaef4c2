package grading

import "fmt"

// SpellingMode controls how near misses are treated.
type SpellingMode string

const (
	SpellingStrict SpellingMode = "strict" // near misses are wrong, no warning
	SpellingWarn   SpellingMode = "warn"   // near misses are wrong, Result.Typo is set
	SpellingAccept SpellingMode = "accept" // near misses count as correct, Result.Typo is set
)

// ParseSpellingMode maps a settings string to a SpellingMode. The empty
// string selects SpellingStrict.
func ParseSpellingMode(s string) (SpellingMode, error) {
	switch SpellingMode(s) {
	case "", SpellingStrict:
		return SpellingStrict, nil
	case SpellingWarn:
		return SpellingWarn, nil
	case SpellingAccept:
		return SpellingAccept, nil
	}
	return "", fmt.Errorf("unknown spelling mode %q", s)
}

// minFuzzyLen is the shortest accepted answer (in runes) eligible for typo
// tolerance. Below it a single edit usually produces a different word.
const minFuzzyLen = 4

// Result is the outcome of matching one entered answer.
type Result struct {
	Correct bool
	// Typo is set when the input missed an accepted answer by at most the
	// configured edit distance.
	Typo bool
	// Matched is the accepted answer that produced the result, if any.
	Matched string
}

// Matcher compares entered text against a set of accepted answers.
type Matcher interface {
	Match(entered string, accepted []string) Result
	Matches(entered string, accepted []string) bool
}

// Option configures a Matcher.
type Option func(*config)

type config struct {
	CaseSensitive   bool
	Spelling        SpellingMode
	MaxEditDistance int
}

func WithCaseSensitive(b bool) Option { return func(c *config) { c.CaseSensitive = b } }

// WithSpellingTolerance sets the near-miss policy. maxEdit <= 0 keeps the
// default distance of 1.
func WithSpellingTolerance(mode SpellingMode, maxEdit int) Option {
	return func(c *config) {
		c.Spelling = mode
		if maxEdit > 0 {
			c.MaxEditDistance = maxEdit
		}
	}
}

// NewMatcher builds a Matcher. Without options it behaves exactly like Matches.
func NewMatcher(opts ...Option) Matcher {
	cfg := &config{
		Spelling:        SpellingStrict,
		MaxEditDistance: 1,
	}
	for _, o := range opts {
		o(cfg)
	}
	return &textMatcher{cfg: *cfg}
}

var defaultMatcher = NewMatcher()

// Matches reports whether entered equals any accepted answer after
// normalization. Empty input never matches.
func Matches(entered string, accepted []string) bool {
	return defaultMatcher.Matches(entered, accepted)
}

type textMatcher struct{ cfg config }

func (m *textMatcher) normalize(s string) string {
	if m.cfg.CaseSensitive {
		return collapseSpace(s)
	}
	return Normalize(s)
}

func (m *textMatcher) Matches(entered string, accepted []string) bool {
	return m.Match(entered, accepted).Correct
}

func (m *textMatcher) Match(entered string, accepted []string) Result {
	in := m.normalize(entered)
	if in == "" {
		return Result{}
	}
	for _, a := range accepted {
		if m.normalize(a) == in {
			return Result{Correct: true, Matched: a}
		}
	}
	if m.cfg.Spelling == SpellingStrict || m.cfg.MaxEditDistance <= 0 {
		return Result{}
	}
	inLen := runeLen(in)
	for _, a := range accepted {
		na := m.normalize(a)
		n := runeLen(na)
		if n < minFuzzyLen || abs(inLen-n) > m.cfg.MaxEditDistance {
			continue
		}
		if levenshtein(na, in) <= m.cfg.MaxEditDistance {
			return Result{
				Correct: m.cfg.Spelling == SpellingAccept,
				Typo:    true,
				Matched: a,
			}
		}
	}
	return Result{}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
