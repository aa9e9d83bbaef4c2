package cloze

// Highlight is a marked span with a tooltip. It never affects correctness.
type Highlight struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	Tooltip     string `json:"tooltip,omitempty"`
	Highlighted bool   `json:"highlighted"`
}

func (h *Highlight) Show()   { h.Highlighted = true }
func (h *Highlight) Hide()   { h.Highlighted = false }
func (h *Highlight) Toggle() { h.Highlighted = !h.Highlighted }
