package exercise

import (
	"github.com/mind-engage/mindengage-cloze/internal/cloze"
	"github.com/mind-engage/mindengage-cloze/internal/grading"
	"github.com/mind-engage/mindengage-cloze/internal/validate"
)

const (
	ClozeTyped  = "type"   // learners type each answer
	ClozeSelect = "select" // learners pick from answers plus distractors
)

// Settings tune how answers are entered and matched and when an exercise
// counts as solved.
type Settings struct {
	ClozeType       string `json:"cloze_type,omitempty" yaml:"cloze_type,omitempty" validate:"omitempty,oneof=type select"`
	CaseSensitive   bool   `json:"case_sensitive,omitempty" yaml:"case_sensitive,omitempty"`
	Spelling        string `json:"spelling,omitempty" yaml:"spelling,omitempty" validate:"omitempty,oneof=strict warn accept"`
	MaxEditDistance int    `json:"max_edit_distance,omitempty" yaml:"max_edit_distance,omitempty" validate:"gte=0,lte=3"`
	// CompleteWhenEmpty decides whether an exercise without blanks is solved
	// on the first check.
	CompleteWhenEmpty bool `json:"complete_when_empty,omitempty" yaml:"complete_when_empty,omitempty"`
}

// Exercise is the stored definition of one cloze exercise.
type Exercise struct {
	ID       string                  `json:"id" yaml:"id" validate:"required,max=64"`
	Title    string                  `json:"title" yaml:"title" validate:"max=200"`
	Text     string                  `json:"text" yaml:"text" validate:"required"`
	Blanks   []cloze.BlankDefinition `json:"blanks" yaml:"blanks" validate:"dive"`
	Snippets map[string]string       `json:"snippets,omitempty" yaml:"snippets,omitempty"`
	Media    map[string]string       `json:"media,omitempty" yaml:"media,omitempty"`
	Feedback string                  `json:"feedback,omitempty" yaml:"feedback,omitempty"`
	Settings Settings                `json:"settings" yaml:"settings"`

	CreatedAt int64 `json:"created_at,omitempty" yaml:"-"`
}

// Summary is the list view of an exercise.
type Summary struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	BlankCount int    `json:"blank_count"`
	CreatedAt  int64  `json:"created_at"`
}

func (e Exercise) Summary() Summary {
	return Summary{ID: e.ID, Title: e.Title, BlankCount: e.BlankCount(), CreatedAt: e.CreatedAt}
}

// BlankCount is the number of blanks in the parsed passage, which can be
// lower than len(e.Blanks). It is 0 when the passage does not parse.
func (e Exercise) BlankCount() int {
	c, _, err := e.Build()
	if err != nil {
		return 0
	}
	return len(c.Blanks())
}

// SelectMode reports whether learners choose answers from a list.
func (e Exercise) SelectMode() bool { return e.Settings.ClozeType == ClozeSelect }

// Matcher builds the answer matcher described by the settings.
func (e Exercise) Matcher() (grading.Matcher, error) {
	mode, err := grading.ParseSpellingMode(e.Settings.Spelling)
	if err != nil {
		return nil, err
	}
	return grading.NewMatcher(
		grading.WithCaseSensitive(e.Settings.CaseSensitive),
		grading.WithSpellingTolerance(mode, e.Settings.MaxEditDistance),
	), nil
}

// Resolved is an exercise with all snippets substituted.
type Resolved struct {
	Text     string
	Blanks   []cloze.BlankDefinition
	Feedback string
}

// Resolve substitutes snippets into the passage, every blank definition and
// the feedback text.
func (e Exercise) Resolve() Resolved {
	defs := make([]cloze.BlankDefinition, len(e.Blanks))
	for i, d := range e.Blanks {
		defs[i] = d.ReplaceSnippets(e.Snippets)
	}
	return Resolved{
		Text:     cloze.ReplaceSnippets(e.Text, e.Snippets),
		Blanks:   defs,
		Feedback: cloze.ReplaceSnippets(e.Feedback, e.Snippets),
	}
}

// Build resolves snippets and parses the passage.
func (e Exercise) Build() (*cloze.Cloze, Resolved, error) {
	m, err := e.Matcher()
	if err != nil {
		return nil, Resolved{}, err
	}
	r := e.Resolve()
	c, err := cloze.Parse(r.Text, r.Blanks, e.Media, cloze.WithMatcher(m))
	if err != nil {
		return nil, Resolved{}, err
	}
	return c, r, nil
}

// Check validates the definition and makes sure it parses.
func (e Exercise) Check(v *validate.Validator) error {
	if err := v.Struct(e); err != nil {
		return err
	}
	_, _, err := e.Build()
	return err
}

// UnresolvedSnippets lists placeholders in the passage, answers, hints and
// feedback that have no snippet.
func (e Exercise) UnresolvedSnippets() []string {
	var out []string
	seen := map[string]bool{}
	add := func(s string) {
		for _, n := range cloze.UnresolvedSnippets(s, e.Snippets) {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	add(e.Text)
	for _, d := range e.Blanks {
		for _, a := range d.Answers {
			add(a)
		}
		for _, a := range d.Distractors {
			add(a)
		}
		add(d.Hint)
	}
	add(e.Feedback)
	return out
}

// Redact returns a copy that is safe to hand to learners. Text and
// feedback are resolved and the snippet table is dropped, since snippets
// may carry answers. Blank definitions are removed entirely; hints and
// choices reach learners through a session only.
func (e Exercise) Redact() Exercise {
	r := e.Resolve()
	out := e
	out.Text = r.Text
	out.Feedback = r.Feedback
	out.Snippets = nil
	out.Blanks = nil
	return out
}
