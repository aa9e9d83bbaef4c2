package cloze

import (
	"fmt"

	"github.com/mind-engage/mindengage-cloze/internal/grading"
)

// Evaluation is the tri-state correctness of a blank.
type Evaluation int

const (
	Unevaluated Evaluation = iota
	Correct
	Incorrect
)

func (e Evaluation) String() string {
	switch e {
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	default:
		return "unevaluated"
	}
}

func (e Evaluation) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

func (e *Evaluation) UnmarshalText(b []byte) error {
	switch string(b) {
	case "correct":
		*e = Correct
	case "incorrect":
		*e = Incorrect
	case "unevaluated", "":
		*e = Unevaluated
	default:
		return fmt.Errorf("unknown evaluation %q", string(b))
	}
	return nil
}

// BlankDefinition is the author-supplied data for one blank, matched to
// blank markers in passage order.
type BlankDefinition struct {
	Answers []string `json:"answers" yaml:"answers" validate:"required,min=1"`
	Hint    string   `json:"hint,omitempty" yaml:"hint,omitempty"`
	// Distractors are wrong choices offered next to the answers when the
	// exercise is played in select mode.
	Distractors []string `json:"distractors,omitempty" yaml:"distractors,omitempty"`
}

// ReplaceSnippets returns a copy of d with snippets substituted into the
// answers, distractors and the hint.
func (d BlankDefinition) ReplaceSnippets(snippets map[string]string) BlankDefinition {
	out := BlankDefinition{
		Answers: make([]string, len(d.Answers)),
		Hint:    ReplaceSnippets(d.Hint, snippets),
	}
	for i, a := range d.Answers {
		out.Answers[i] = ReplaceSnippets(a, snippets)
	}
	if len(d.Distractors) > 0 {
		out.Distractors = make([]string, len(d.Distractors))
		for i, a := range d.Distractors {
			out.Distractors[i] = ReplaceSnippets(a, snippets)
		}
	}
	return out
}

// Blank is a single fill-in slot.
type Blank struct {
	ID             string     `json:"id"`
	Answers        []string   `json:"answers"`
	Hint           string     `json:"hint,omitempty"`
	EnteredText    string     `json:"entered_text"`
	State          Evaluation `json:"state"`
	Typo           bool       `json:"typo,omitempty"`
	TooltipVisible bool       `json:"tooltip_visible"`

	matcher grading.Matcher
}

// NewBlank validates def and builds a blank. A nil matcher selects the
// default normalization policy.
func NewBlank(id string, def BlankDefinition, m grading.Matcher) (*Blank, error) {
	if len(def.Answers) == 0 {
		return nil, &InvalidBlankDefinitionError{BlankID: id, Reason: "no accepted answers"}
	}
	if m == nil {
		m = grading.NewMatcher()
	}
	answers := make([]string, len(def.Answers))
	copy(answers, def.Answers)
	return &Blank{
		ID:      id,
		Answers: answers,
		Hint:    def.Hint,
		matcher: m,
	}, nil
}

func (b *Blank) IsCorrect() bool { return b.State == Correct }

// Attempted reports whether the learner entered anything.
func (b *Blank) Attempted() bool { return b.EnteredText != "" }

func (b *Blank) SetEnteredText(s string) { b.EnteredText = s }

// EvaluateEnteredAnswer matches the entered text against the accepted
// answers and closes the tooltip. Empty input evaluates to Incorrect.
func (b *Blank) EvaluateEnteredAnswer() {
	res := b.matcher.Match(b.EnteredText, b.Answers)
	if res.Correct {
		b.State = Correct
	} else {
		b.State = Incorrect
	}
	b.Typo = res.Typo
	b.TooltipVisible = false
}

func (b *Blank) ShowHint() { b.TooltipVisible = true }

func (b *Blank) RemoveTooltip() { b.TooltipVisible = false }
