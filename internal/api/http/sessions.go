package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	auth "github.com/mind-engage/mindengage-cloze/internal/auth/middleware"
	"github.com/mind-engage/mindengage-cloze/internal/exercise"
	"github.com/mind-engage/mindengage-cloze/internal/logger"
	"github.com/mind-engage/mindengage-cloze/internal/session"
)

type outcomeResponse struct {
	session.Outcome
	View session.View `json:"view"`
}

// SessionHandlers serves the learner flow on top of a session manager.
type SessionHandlers struct {
	Store    exercise.Store
	Sessions *session.Manager
	Log      *logger.Logger
}

func (h SessionHandlers) load(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, err := h.Sessions.Get(chi.URLParam(r, "id"), auth.SubjectFromContext(r.Context()))
	if err != nil {
		writeError(w, h.Log, err)
		return nil, false
	}
	return s, true
}

// POST /exercises/{id}/sessions
func (h SessionHandlers) Start(w http.ResponseWriter, r *http.Request) {
	e, err := h.Store.GetExercise(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	s, err := h.Sessions.Start(e, auth.SubjectFromContext(r.Context()))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.Snapshot())
}

// GET /sessions/{id}
func (h SessionHandlers) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

// PUT /sessions/{id}/blanks/{blankID}  { "text": "..." }
func (h SessionHandlers) CheckBlank(w http.ResponseWriter, r *http.Request) {
	s, ok := h.load(w, r)
	if !ok {
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	out, err := s.CheckBlank(r.Context(), chi.URLParam(r, "blankID"), req.Text)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, outcomeResponse{Outcome: out, View: s.Snapshot()})
}

// POST /sessions/{id}/check  { "answers": { "b1": "..." } }
func (h SessionHandlers) CheckAll(w http.ResponseWriter, r *http.Request) {
	s, ok := h.load(w, r)
	if !ok {
		return
	}
	var req struct {
		Answers map[string]string `json:"answers"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	out, err := s.CheckAll(r.Context(), req.Answers)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, outcomeResponse{Outcome: out, View: s.Snapshot()})
}

// POST /sessions/{id}/blanks/{blankID}/hint
func (h SessionHandlers) ShowHint(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(s *session.Session) error { return s.ShowHint(chi.URLParam(r, "blankID")) })
}

// DELETE /sessions/{id}/blanks/{blankID}/tooltip
func (h SessionHandlers) CloseTooltip(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(s *session.Session) error { return s.CloseTooltip(chi.URLParam(r, "blankID")) })
}

// POST /sessions/{id}/highlights/{highlightID}
func (h SessionHandlers) ShowHighlight(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(s *session.Session) error { return s.ShowHighlight(chi.URLParam(r, "highlightID")) })
}

// DELETE /sessions/{id}/highlights
func (h SessionHandlers) HideHighlights(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(s *session.Session) error { s.HideHighlights(); return nil })
}

// DELETE /sessions/{id}/feedback
func (h SessionHandlers) CloseFeedback(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(s *session.Session) error { s.CloseFeedback(); return nil })
}

func (h SessionHandlers) act(w http.ResponseWriter, r *http.Request, fn func(*session.Session) error) {
	s, ok := h.load(w, r)
	if !ok {
		return
	}
	if err := fn(s); err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}
