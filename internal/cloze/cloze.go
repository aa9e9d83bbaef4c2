package cloze

// Cloze is a parsed passage with its blanks and highlights. The segment
// sequence is fixed after Parse; only blank and highlight state changes.
//
// At most one tooltip (a blank hint or a highlight) is open at a time. The
// methods on Cloze keep that invariant; mutating a Blank or Highlight
// directly bypasses it.
type Cloze struct {
	segments     []Segment
	blanks       []*Blank
	highlights   []*Highlight
	media        map[string]string
	blankIdx     map[string]int
	highlightIdx map[string]int

	activeTooltip string
}

// Segments returns a copy of the segment sequence in reading order.
func (c *Cloze) Segments() []Segment {
	out := make([]Segment, len(c.segments))
	copy(out, c.segments)
	return out
}

// Blanks returns the blanks in order of appearance.
func (c *Cloze) Blanks() []*Blank { return c.blanks }

// Highlights returns the highlights in order of appearance.
func (c *Cloze) Highlights() []*Highlight { return c.highlights }

func (c *Cloze) Blank(id string) (*Blank, bool) {
	i, ok := c.blankIdx[id]
	if !ok {
		return nil, false
	}
	return c.blanks[i], true
}

func (c *Cloze) Highlight(id string) (*Highlight, bool) {
	i, ok := c.highlightIdx[id]
	if !ok {
		return nil, false
	}
	return c.highlights[i], true
}

// Media returns the reference a media segment points at.
func (c *Cloze) Media(key string) (string, bool) {
	v, ok := c.media[key]
	return v, ok
}

// NextBlank returns the blank following id, or nil when id is the last one.
func (c *Cloze) NextBlank(id string) *Blank {
	i, ok := c.blankIdx[id]
	if !ok || i+1 >= len(c.blanks) {
		return nil
	}
	return c.blanks[i+1]
}

// ActiveTooltip is the id of the blank or highlight whose tooltip is open,
// or "" when none is.
func (c *Cloze) ActiveTooltip() string { return c.activeTooltip }

// CheckCompleteness reports whether every blank is correct. A cloze without
// blanks is vacuously complete.
func (c *Cloze) CheckCompleteness() bool {
	for _, b := range c.blanks {
		if !b.IsCorrect() {
			return false
		}
	}
	return true
}

// HideAllHighlights switches every highlight off.
func (c *Cloze) HideAllHighlights() {
	for _, h := range c.highlights {
		h.Hide()
	}
	if _, ok := c.highlightIdx[c.activeTooltip]; ok {
		c.activeTooltip = ""
	}
}

func (c *Cloze) closeTooltips() {
	for _, b := range c.blanks {
		b.RemoveTooltip()
	}
	c.HideAllHighlights()
	c.activeTooltip = ""
}

// ShowHint opens the hint of one blank and closes every other tooltip.
func (c *Cloze) ShowHint(blankID string) error {
	b, ok := c.Blank(blankID)
	if !ok {
		return ErrUnknownBlank
	}
	c.closeTooltips()
	b.ShowHint()
	c.activeTooltip = blankID
	return nil
}

// RemoveTooltip closes the tooltip of one blank.
func (c *Cloze) RemoveTooltip(blankID string) error {
	b, ok := c.Blank(blankID)
	if !ok {
		return ErrUnknownBlank
	}
	b.RemoveTooltip()
	if c.activeTooltip == blankID {
		c.activeTooltip = ""
	}
	return nil
}

// ShowHighlight switches one highlight on and closes every other tooltip.
func (c *Cloze) ShowHighlight(highlightID string) error {
	h, ok := c.Highlight(highlightID)
	if !ok {
		return ErrUnknownHighlight
	}
	c.closeTooltips()
	h.Show()
	c.activeTooltip = highlightID
	return nil
}

// Evaluate hides all highlights and evaluates one blank. No other blank is
// touched.
func (c *Cloze) Evaluate(blankID string) error {
	b, ok := c.Blank(blankID)
	if !ok {
		return ErrUnknownBlank
	}
	c.HideAllHighlights()
	b.EvaluateEnteredAnswer()
	if c.activeTooltip == blankID {
		c.activeTooltip = ""
	}
	return nil
}
