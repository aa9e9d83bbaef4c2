package session

import (
	"slices"

	"github.com/mind-engage/mindengage-cloze/internal/cloze"
)

// BlankView is the learner-safe state of a blank. Accepted answers are never
// singled out; the hint is included only while its tooltip is open. In select
// mode Choices lists answers and distractors in a fixed shuffled order.
type BlankView struct {
	ID             string           `json:"id"`
	EnteredText    string           `json:"entered_text"`
	State          cloze.Evaluation `json:"state"`
	Typo           bool             `json:"typo,omitempty"`
	HasHint        bool             `json:"has_hint"`
	TooltipVisible bool             `json:"tooltip_visible"`
	Hint           string           `json:"hint,omitempty"`
	Choices        []string         `json:"choices,omitempty"`
}

type FeedbackView struct {
	Visible bool   `json:"visible"`
	Text    string `json:"text,omitempty"`
}

// View is everything a renderer needs to draw the exercise.
type View struct {
	ID            string            `json:"id"`
	ExerciseID    string            `json:"exercise_id"`
	Title         string            `json:"title,omitempty"`
	Segments      []cloze.Segment   `json:"segments"`
	Blanks        []BlankView       `json:"blanks"`
	Highlights    []cloze.Highlight `json:"highlights"`
	Media         map[string]string `json:"media,omitempty"`
	Feedback      FeedbackView      `json:"feedback"`
	ActiveTooltip string            `json:"active_tooltip,omitempty"`
	ClozeType     string            `json:"cloze_type"`
	Solved        bool              `json:"solved"`
}

func (s *Session) blankView(b *cloze.Blank) BlankView {
	v := BlankView{
		ID:             b.ID,
		EnteredText:    b.EnteredText,
		State:          b.State,
		Typo:           b.Typo,
		HasHint:        b.Hint != "",
		TooltipVisible: b.TooltipVisible,
	}
	if b.TooltipVisible {
		v.Hint = b.Hint
	}
	v.Choices = slices.Clone(s.choices[b.ID])
	return v
}

// Outcome is the result of a check.
type Outcome struct {
	Blank *BlankView `json:"blank,omitempty"`
	// Solved is true when every blank is correct after the check.
	Solved bool `json:"solved"`
	// JustSolved is true only for the check that first solved the session.
	JustSolved bool `json:"just_solved"`
	// NextBlank is the blank a renderer should focus after a correct answer.
	NextBlank string `json:"next_blank,omitempty"`
}
