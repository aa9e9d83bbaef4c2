package cloze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-cloze/internal/grading"
)

func parseTwo(t *testing.T) *Cloze {
	t.Helper()
	c, err := Parse(
		"[[blank]] is the capital of [[France|highlight:a country]]; [[blank]] of [[Italy|highlight:another]].",
		[]BlankDefinition{
			{Answers: []string{"Paris", "paris"}, Hint: "starts with P"},
			{Answers: []string{"Rome"}},
		},
		nil,
	)
	require.NoError(t, err)
	return c
}

func TestBlankEvaluate(t *testing.T) {
	b, err := NewBlank("b1", BlankDefinition{Answers: []string{"Paris", "paris"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, Unevaluated, b.State)

	b.SetEnteredText("  PARIS ")
	b.ShowHint()
	b.EvaluateEnteredAnswer()
	assert.True(t, b.IsCorrect())
	assert.False(t, b.TooltipVisible)

	b.SetEnteredText("London")
	b.EvaluateEnteredAnswer()
	assert.Equal(t, Incorrect, b.State)
}

func TestBlankEvaluateEmpty(t *testing.T) {
	b, err := NewBlank("b1", BlankDefinition{Answers: []string{"cat"}}, nil)
	require.NoError(t, err)
	assert.False(t, b.Attempted())
	b.EvaluateEnteredAnswer()
	assert.Equal(t, Incorrect, b.State)
	assert.False(t, b.IsCorrect())
}

func TestBlankHintAndTooltip(t *testing.T) {
	b, err := NewBlank("b1", BlankDefinition{Answers: []string{"cat"}}, nil)
	require.NoError(t, err)
	b.SetEnteredText("dog")
	b.ShowHint()
	assert.True(t, b.TooltipVisible)
	assert.Equal(t, Unevaluated, b.State)
	assert.Equal(t, "dog", b.EnteredText)

	b.RemoveTooltip()
	b.RemoveTooltip()
	assert.False(t, b.TooltipVisible)
}

func TestNewBlankRequiresAnswers(t *testing.T) {
	_, err := NewBlank("b1", BlankDefinition{}, nil)
	require.Error(t, err)
	var ie *InvalidBlankDefinitionError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "b1", ie.BlankID)
}

func TestBlankUsesMatcher(t *testing.T) {
	m := grading.NewMatcher(grading.WithSpellingTolerance(grading.SpellingWarn, 1))
	c, err := Parse("[[blank]]", []BlankDefinition{{Answers: []string{"giraffe"}}}, nil, WithMatcher(m))
	require.NoError(t, err)
	b := c.Blanks()[0]
	b.SetEnteredText("girafe")
	b.EvaluateEnteredAnswer()
	assert.Equal(t, Incorrect, b.State)
	assert.True(t, b.Typo)
}

func TestCheckCompleteness(t *testing.T) {
	c := parseTwo(t)
	assert.False(t, c.CheckCompleteness())

	b1, _ := c.Blank("b1")
	b2, _ := c.Blank("b2")
	b1.SetEnteredText("paris")
	require.NoError(t, c.Evaluate("b1"))
	assert.False(t, c.CheckCompleteness())

	b2.SetEnteredText("rome")
	require.NoError(t, c.Evaluate("b2"))
	assert.True(t, c.CheckCompleteness())
	assert.True(t, c.CheckCompleteness())

	b2.SetEnteredText("milan")
	require.NoError(t, c.Evaluate("b2"))
	assert.False(t, c.CheckCompleteness())
}

func TestEvaluateIsolation(t *testing.T) {
	c := parseTwo(t)
	b1, _ := c.Blank("b1")
	b2, _ := c.Blank("b2")
	b2.SetEnteredText("Rome")
	require.NoError(t, c.Evaluate("b2"))
	before := *b2

	b1.SetEnteredText("Lyon")
	require.NoError(t, c.Evaluate("b1"))
	assert.Equal(t, Incorrect, b1.State)
	assert.Equal(t, before.State, b2.State)
	assert.Equal(t, before.EnteredText, b2.EnteredText)
	for _, h := range c.Highlights() {
		assert.False(t, h.Highlighted)
	}
}

func TestSingleTooltip(t *testing.T) {
	c := parseTwo(t)

	require.NoError(t, c.ShowHighlight("h1"))
	assert.Equal(t, "h1", c.ActiveTooltip())

	require.NoError(t, c.ShowHint("b1"))
	assert.Equal(t, "b1", c.ActiveTooltip())
	h1, _ := c.Highlight("h1")
	assert.False(t, h1.Highlighted)

	require.NoError(t, c.ShowHint("b2"))
	b1, _ := c.Blank("b1")
	b2, _ := c.Blank("b2")
	assert.False(t, b1.TooltipVisible)
	assert.True(t, b2.TooltipVisible)

	require.NoError(t, c.ShowHighlight("h2"))
	assert.False(t, b2.TooltipVisible)
	assert.Equal(t, "h2", c.ActiveTooltip())

	c.HideAllHighlights()
	assert.Equal(t, "", c.ActiveTooltip())

	require.NoError(t, c.ShowHint("b1"))
	require.NoError(t, c.RemoveTooltip("b1"))
	assert.Equal(t, "", c.ActiveTooltip())
	assert.False(t, b1.TooltipVisible)
}

func TestUnknownIDs(t *testing.T) {
	c := parseTwo(t)
	assert.ErrorIs(t, c.ShowHint("b9"), ErrUnknownBlank)
	assert.ErrorIs(t, c.RemoveTooltip("h1"), ErrUnknownBlank)
	assert.ErrorIs(t, c.Evaluate("nope"), ErrUnknownBlank)
	assert.ErrorIs(t, c.ShowHighlight("b1"), ErrUnknownHighlight)
}

func TestNextBlank(t *testing.T) {
	c := parseTwo(t)
	require.NotNil(t, c.NextBlank("b1"))
	assert.Equal(t, "b2", c.NextBlank("b1").ID)
	assert.Nil(t, c.NextBlank("b2"))
	assert.Nil(t, c.NextBlank("zz"))
}

func TestHighlightToggle(t *testing.T) {
	h := &Highlight{ID: "h1"}
	h.Toggle()
	assert.True(t, h.Highlighted)
	h.Toggle()
	assert.False(t, h.Highlighted)
}

func TestFeedback(t *testing.T) {
	f := NewFeedback("Well done")
	assert.False(t, f.Visible)
	f.Show()
	assert.True(t, f.Visible)
	f.Dismiss()
	assert.False(t, f.Visible)
}
