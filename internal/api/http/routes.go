package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	auth "github.com/mind-engage/mindengage-cloze/internal/auth/middleware"
	"github.com/mind-engage/mindengage-cloze/internal/exercise"
	"github.com/mind-engage/mindengage-cloze/internal/logger"
	"github.com/mind-engage/mindengage-cloze/internal/rbac"
	"github.com/mind-engage/mindengage-cloze/internal/session"
	"github.com/mind-engage/mindengage-cloze/internal/storage"
	"github.com/mind-engage/mindengage-cloze/internal/validate"
)

type Deps struct {
	Auth      *auth.AuthService
	Author    auth.Credentials
	Guest     bool
	Store     exercise.Store
	Sessions  *session.Manager
	Solves    SolveLister // optional
	Blobs     storage.BlobStore
	Validator *validate.Validator
	Log       *logger.Logger
	Ready     func() error // optional readiness check
}

// Mount registers every API route on r.
func Mount(r chi.Router, d Deps) {
	if d.Log == nil {
		d.Log = logger.NewNop()
	}
	sh := SessionHandlers{Store: d.Store, Sessions: d.Sessions, Log: d.Log}

	r.Post("/auth/login", auth.LoginHandler(d.Auth, d.Author))
	if d.Guest {
		r.Post("/auth/guest", auth.GuestHandler(d.Auth))
	}

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(d.Auth))

		pr.With(rbac.Require("exercise:create")).
			Post("/exercises", UploadExerciseHandler(d.Store, d.Validator, d.Log))
		pr.With(rbac.Require("exercise:list")).
			Get("/exercises", ListExercisesHandler(d.Store, d.Log))
		pr.With(rbac.RequireAny("exercise:view", "exercise:create")).
			Get("/exercises/{id}", GetExerciseHandler(d.Store, d.Log))
		pr.With(rbac.Require("exercise:delete")).
			Delete("/exercises/{id}", DeleteExerciseHandler(d.Store, d.Log))
		if d.Solves != nil {
			pr.With(rbac.Require("exercise:view-solves")).
				Get("/exercises/{id}/solves", ListSolvesHandler(d.Solves, d.Log))
		}

		pr.Group(func(sr chi.Router) {
			sr.Use(rbac.Require("session:play"))
			sr.Post("/exercises/{id}/sessions", sh.Start)
			sr.Route("/sessions/{id}", func(s chi.Router) {
				s.Get("/", sh.Get)
				s.Post("/check", sh.CheckAll)
				s.Put("/blanks/{blankID}", sh.CheckBlank)
				s.Post("/blanks/{blankID}/hint", sh.ShowHint)
				s.Delete("/blanks/{blankID}/tooltip", sh.CloseTooltip)
				s.Post("/highlights/{highlightID}", sh.ShowHighlight)
				s.Delete("/highlights", sh.HideHighlights)
				s.Delete("/feedback", sh.CloseFeedback)
			})
		})

		if d.Blobs != nil {
			pr.With(rbac.Require("media:upload")).
				Post("/media/*", MediaUploadHandler(d.Blobs, d.Log))
			pr.With(rbac.Require("media:view")).
				Get("/media/*", MediaGetHandler(d.Blobs, d.Log))
			pr.With(rbac.Require("media:delete")).
				Delete("/media/*", MediaDeleteHandler(d.Blobs, d.Log))
		}
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if d.Ready != nil {
			if err := d.Ready(); err != nil {
				d.Log.Warn("not ready", "error", err)
				http.Error(w, "not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})
}
