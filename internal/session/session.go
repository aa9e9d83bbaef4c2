package session

import (
	"context"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/mind-engage/mindengage-cloze/internal/cloze"
	"github.com/mind-engage/mindengage-cloze/internal/exercise"
	"github.com/mind-engage/mindengage-cloze/internal/logger"
)

// Session drives one learner's pass through an exercise. All methods are
// safe for concurrent use; they are serialized so the cloze sees a single
// sequential flow of learner actions.
type Session struct {
	mu sync.Mutex

	id         string
	exerciseID string
	title      string
	userID     string

	cloze             *cloze.Cloze
	clozeType         string
	choices           map[string][]string
	feedback          *cloze.Feedback
	completeWhenEmpty bool
	solved            bool

	recorder Recorder
	log      *logger.Logger
	now      func() time.Time
	shuffle  func(n int, swap func(i, j int))
	lastUsed time.Time

	subMu   sync.Mutex
	subs    map[int]func(Event)
	nextSub int
}

type Option func(*Session)

func WithID(id string) Option            { return func(s *Session) { s.id = id } }
func WithUser(userID string) Option      { return func(s *Session) { s.userID = userID } }
func WithRecorder(r Recorder) Option     { return func(s *Session) { s.recorder = r } }
func WithLogger(l *logger.Logger) Option { return func(s *Session) { s.log = l } }
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithShuffle replaces the function that orders select-mode choices.
func WithShuffle(fn func(n int, swap func(i, j int))) Option {
	return func(s *Session) { s.shuffle = fn }
}

// New resolves snippets, parses the exercise and returns a fresh session.
func New(ex exercise.Exercise, opts ...Option) (*Session, error) {
	c, r, err := ex.Build()
	if err != nil {
		return nil, err
	}
	s := &Session{
		exerciseID:        ex.ID,
		title:             ex.Title,
		cloze:             c,
		clozeType:         exercise.ClozeTyped,
		feedback:          cloze.NewFeedback(r.Feedback),
		completeWhenEmpty: ex.Settings.CompleteWhenEmpty,
		now:               time.Now,
		shuffle:           rand.Shuffle,
		subs:              map[int]func(Event){},
	}
	for _, o := range opts {
		o(s)
	}
	if ex.SelectMode() {
		s.clozeType = exercise.ClozeSelect
		s.choices = make(map[string][]string, len(c.Blanks()))
		for i, b := range c.Blanks() {
			s.choices[b.ID] = choicesFor(r.Blanks[i], s.shuffle)
		}
	}
	if s.log == nil {
		s.log = logger.NewNop()
	}
	s.log = s.log.With("session_id", s.id, "exercise_id", s.exerciseID)
	s.lastUsed = s.now()
	return s, nil
}

// choicesFor merges answers and distractors, dropping blanks and repeats,
// and shuffles the result once so it stays stable for the session.
func choicesFor(d cloze.BlankDefinition, shuffle func(n int, swap func(i, j int))) []string {
	seen := map[string]bool{}
	var out []string
	for _, c := range slices.Concat(d.Answers, d.Distractors) {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func (s *Session) ID() string         { return s.id }
func (s *Session) ExerciseID() string { return s.exerciseID }
func (s *Session) UserID() string     { return s.userID }

// Subscribe registers fn for change events and returns a function that
// removes it. fn runs after the session lock is released.
func (s *Session) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Session) emit(evs []Event) {
	if len(evs) == 0 {
		return
	}
	s.subMu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, ev := range evs {
		for _, fn := range fns {
			fn(ev)
		}
	}
}

// changes collects events while the session lock is held.
type changes struct {
	sessionID string
	evs       []Event
}

func (c *changes) add(kind EventKind, ref string) {
	c.evs = append(c.evs, Event{Kind: kind, SessionID: c.sessionID, Ref: ref})
}

// lock acquires the session and returns the function that releases it and
// publishes what changed meanwhile.
func (s *Session) lock() (*changes, func()) {
	s.mu.Lock()
	s.lastUsed = s.now()
	ch := &changes{sessionID: s.id}
	return ch, func() {
		s.mu.Unlock()
		s.emit(ch.evs)
	}
}

// hideHighlights switches highlights off and records those that changed.
func (s *Session) hideHighlights(ch *changes) {
	for _, h := range s.cloze.Highlights() {
		if h.Highlighted {
			ch.add(EventHighlightChanged, h.ID)
		}
	}
	s.cloze.HideAllHighlights()
}

// closeTooltipEvents records the blank whose tooltip is about to close.
func (s *Session) closeTooltipEvents(ch *changes, except string) {
	for _, b := range s.cloze.Blanks() {
		if b.TooltipVisible && b.ID != except {
			ch.add(EventBlankChanged, b.ID)
		}
	}
}

// CheckBlank stores text as the answer of one blank and evaluates it. A
// blank that is already correct is left untouched.
func (s *Session) CheckBlank(ctx context.Context, blankID, text string) (Outcome, error) {
	ch, unlock := s.lock()
	defer unlock()

	b, ok := s.cloze.Blank(blankID)
	if !ok {
		return Outcome{}, cloze.ErrUnknownBlank
	}
	if b.IsCorrect() {
		v := s.blankView(b)
		return Outcome{Blank: &v, Solved: s.solved}, nil
	}

	s.hideHighlights(ch)
	b.SetEnteredText(text)
	if err := s.cloze.Evaluate(blankID); err != nil {
		return Outcome{}, err
	}
	ch.add(EventBlankChanged, blankID)
	s.log.Debug("blank checked", "blank", blankID, "state", b.State.String(), "typo", b.Typo)

	out := s.checkCompleteness(ctx, ch)
	v := s.blankView(b)
	out.Blank = &v
	if !out.Solved && b.IsCorrect() {
		if next := s.cloze.NextBlank(blankID); next != nil {
			out.NextBlank = next.ID
		}
	}
	return out, nil
}

// CheckAll applies entries (blank id to text), then evaluates every blank
// that is neither correct already nor empty.
func (s *Session) CheckAll(ctx context.Context, entries map[string]string) (Outcome, error) {
	ch, unlock := s.lock()
	defer unlock()

	for id := range entries {
		if _, ok := s.cloze.Blank(id); !ok {
			return Outcome{}, cloze.ErrUnknownBlank
		}
	}

	s.hideHighlights(ch)
	for _, b := range s.cloze.Blanks() {
		if b.IsCorrect() {
			continue
		}
		if text, ok := entries[b.ID]; ok {
			b.SetEnteredText(text)
		}
		if !b.Attempted() {
			continue
		}
		if err := s.cloze.Evaluate(b.ID); err != nil {
			return Outcome{}, err
		}
		ch.add(EventBlankChanged, b.ID)
	}
	return s.checkCompleteness(ctx, ch), nil
}

// checkCompleteness shows the feedback when every blank is correct and
// records the first success.
func (s *Session) checkCompleteness(ctx context.Context, ch *changes) Outcome {
	if !s.complete() {
		return Outcome{}
	}
	out := Outcome{Solved: true}
	if !s.feedback.Visible {
		s.feedback.Show()
		ch.add(EventFeedbackChanged, "")
	}
	if s.solved {
		return out
	}
	s.solved = true
	out.JustSolved = true
	ch.add(EventSolved, "")
	s.log.Info("exercise solved", "user_id", s.userID)
	if s.recorder != nil {
		ev := SolvedEvent{
			ExerciseID: s.exerciseID,
			SessionID:  s.id,
			UserID:     s.userID,
			SolvedAt:   s.now().UTC(),
		}
		if err := s.recorder.RecordSolved(ctx, ev); err != nil {
			s.log.Warn("record solved failed", "error", err)
		}
	}
	return out
}

func (s *Session) complete() bool {
	if len(s.cloze.Blanks()) == 0 && !s.completeWhenEmpty {
		return false
	}
	return s.cloze.CheckCompleteness()
}

// ShowHint opens the hint of one blank, closing any other tooltip.
func (s *Session) ShowHint(blankID string) error {
	ch, unlock := s.lock()
	defer unlock()

	if _, ok := s.cloze.Blank(blankID); !ok {
		return cloze.ErrUnknownBlank
	}
	s.closeTooltipEvents(ch, blankID)
	s.hideHighlights(ch)
	if err := s.cloze.ShowHint(blankID); err != nil {
		return err
	}
	ch.add(EventBlankChanged, blankID)
	return nil
}

// CloseTooltip closes the tooltip of one blank.
func (s *Session) CloseTooltip(blankID string) error {
	ch, unlock := s.lock()
	defer unlock()

	b, ok := s.cloze.Blank(blankID)
	if !ok {
		return cloze.ErrUnknownBlank
	}
	wasOpen := b.TooltipVisible
	if err := s.cloze.RemoveTooltip(blankID); err != nil {
		return err
	}
	if wasOpen {
		ch.add(EventBlankChanged, blankID)
	}
	return nil
}

// ShowHighlight marks one highlight, closing any other tooltip.
func (s *Session) ShowHighlight(highlightID string) error {
	ch, unlock := s.lock()
	defer unlock()

	if _, ok := s.cloze.Highlight(highlightID); !ok {
		return cloze.ErrUnknownHighlight
	}
	s.closeTooltipEvents(ch, "")
	for _, h := range s.cloze.Highlights() {
		if h.Highlighted && h.ID != highlightID {
			ch.add(EventHighlightChanged, h.ID)
		}
	}
	if err := s.cloze.ShowHighlight(highlightID); err != nil {
		return err
	}
	ch.add(EventHighlightChanged, highlightID)
	return nil
}

// HideHighlights switches every highlight off.
func (s *Session) HideHighlights() {
	ch, unlock := s.lock()
	defer unlock()
	s.hideHighlights(ch)
}

// CloseFeedback dismisses the completion feedback.
func (s *Session) CloseFeedback() {
	ch, unlock := s.lock()
	defer unlock()
	if s.feedback.Visible {
		s.feedback.Dismiss()
		ch.add(EventFeedbackChanged, "")
	}
}

// Solved reports whether the session has been solved at least once.
func (s *Session) Solved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.solved
}

// Snapshot returns the current learner-safe view.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		ID:            s.id,
		ExerciseID:    s.exerciseID,
		Title:         s.title,
		Segments:      s.cloze.Segments(),
		Blanks:        make([]BlankView, 0, len(s.cloze.Blanks())),
		Highlights:    make([]cloze.Highlight, 0, len(s.cloze.Highlights())),
		Feedback:      FeedbackView{Visible: s.feedback.Visible},
		ActiveTooltip: s.cloze.ActiveTooltip(),
		ClozeType:     s.clozeType,
		Solved:        s.solved,
	}
	for _, b := range s.cloze.Blanks() {
		v.Blanks = append(v.Blanks, s.blankView(b))
	}
	for _, h := range s.cloze.Highlights() {
		v.Highlights = append(v.Highlights, *h)
	}
	for _, seg := range v.Segments {
		if seg.Kind != cloze.SegmentMedia {
			continue
		}
		if v.Media == nil {
			v.Media = map[string]string{}
		}
		v.Media[seg.Ref], _ = s.cloze.Media(seg.Ref)
	}
	if s.feedback.Visible {
		v.Feedback.Text = s.feedback.Text
	}
	return v
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}
