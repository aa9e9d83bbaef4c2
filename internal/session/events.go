package session

import (
	"context"
	"time"
)

type EventKind string

const (
	EventBlankChanged     EventKind = "blank_changed"
	EventHighlightChanged EventKind = "highlight_changed"
	EventFeedbackChanged  EventKind = "feedback_changed"
	EventSolved           EventKind = "solved"
)

// Event tells a subscriber which entity changed. Ref is the blank or
// highlight id; it is empty for feedback and solved events.
type Event struct {
	Kind      EventKind `json:"kind"`
	SessionID string    `json:"session_id"`
	Ref       string    `json:"ref,omitempty"`
}

// SolvedEvent is handed to the Recorder the first time a session is solved.
type SolvedEvent struct {
	ExerciseID string    `json:"exercise_id"`
	SessionID  string    `json:"session_id"`
	UserID     string    `json:"user_id,omitempty"`
	SolvedAt   time.Time `json:"solved_at"`
}

// Recorder persists solved state outside the session.
type Recorder interface {
	RecordSolved(ctx context.Context, ev SolvedEvent) error
}

type RecorderFunc func(ctx context.Context, ev SolvedEvent) error

func (f RecorderFunc) RecordSolved(ctx context.Context, ev SolvedEvent) error { return f(ctx, ev) }
