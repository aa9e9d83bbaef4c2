package cloze

// Feedback is the message shown once the whole cloze is solved.
type Feedback struct {
	Text    string `json:"text"`
	Visible bool   `json:"visible"`
}

func NewFeedback(text string) *Feedback { return &Feedback{Text: text} }

func (f *Feedback) Show()    { f.Visible = true }
func (f *Feedback) Dismiss() { f.Visible = false }
