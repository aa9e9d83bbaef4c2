package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mind-engage/mindengage-cloze/internal/exercise"
	"github.com/mind-engage/mindengage-cloze/internal/logger"
	"github.com/mind-engage/mindengage-cloze/internal/rbac"
	"github.com/mind-engage/mindengage-cloze/internal/session"
	"github.com/mind-engage/mindengage-cloze/internal/validate"
)

// SolveLister reads back recorded solves.
type SolveLister interface {
	Solves(ctx context.Context, exerciseID string, limit int) ([]session.SolvedEvent, error)
}

type uploadResponse struct {
	Exercise exercise.Exercise `json:"exercise"`
	Warnings []string          `json:"warnings,omitempty"`
}

// POST /exercises
func UploadExerciseHandler(store exercise.Store, v *validate.Validator, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var e exercise.Exercise
		if !decodeJSON(w, r, &e) {
			return
		}
		e.ID = strings.TrimSpace(e.ID)
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if err := e.Check(v); err != nil {
			writeError(w, log, err)
			return
		}
		e.CreatedAt = time.Now().Unix()
		if err := store.PutExercise(r.Context(), e); err != nil {
			writeError(w, log, err)
			return
		}
		var warnings []string
		for _, name := range e.UnresolvedSnippets() {
			warnings = append(warnings, "unresolved snippet @{"+name+"}")
		}
		log.Info("exercise stored", "exercise_id", e.ID, "blanks", e.BlankCount())
		writeJSON(w, http.StatusCreated, uploadResponse{Exercise: e, Warnings: warnings})
	}
}

// GET /exercises?q=&limit=&offset=
func ListExercisesHandler(store exercise.Store, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListExercises(r.Context(), exercise.ListOpts{
			Q:      strings.TrimSpace(r.URL.Query().Get("q")),
			Limit:  parseIntDefault(r.URL.Query().Get("limit"), 50),
			Offset: parseIntDefault(r.URL.Query().Get("offset"), 0),
		})
		if err != nil {
			writeError(w, log, err)
			return
		}
		if list == nil {
			list = []exercise.Summary{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// GET /exercises/{id}; callers without exercise:create get the redacted copy.
func GetExerciseHandler(store exercise.Store, log *logger.Logger) http.HandlerFunc {
	checker := rbac.NewChecker(nil)
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := store.GetExercise(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, log, err)
			return
		}
		if !checker.Has(rbac.RoleFromContext(r.Context()), "exercise:create") {
			e = e.Redact()
		}
		writeJSON(w, http.StatusOK, e)
	}
}

// DELETE /exercises/{id}
func DeleteExerciseHandler(store exercise.Store, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := store.DeleteExercise(r.Context(), id); err != nil {
			writeError(w, log, err)
			return
		}
		log.Info("exercise deleted", "exercise_id", id)
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /exercises/{id}/solves?limit=
func ListSolvesHandler(solves SolveLister, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := solves.Solves(r.Context(), chi.URLParam(r, "id"), parseIntDefault(r.URL.Query().Get("limit"), 100))
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}
