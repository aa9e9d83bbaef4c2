package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/mind-engage/mindengage-cloze/internal/api/http"
	auth "github.com/mind-engage/mindengage-cloze/internal/auth/middleware"
	"github.com/mind-engage/mindengage-cloze/internal/config"
	"github.com/mind-engage/mindengage-cloze/internal/db"
	"github.com/mind-engage/mindengage-cloze/internal/exercise"
	"github.com/mind-engage/mindengage-cloze/internal/logger"
	"github.com/mind-engage/mindengage-cloze/internal/session"
	storage "github.com/mind-engage/mindengage-cloze/internal/storage"
	syncx "github.com/mind-engage/mindengage-cloze/internal/sync"
	"github.com/mind-engage/mindengage-cloze/internal/validate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	cancel()
	if err != nil {
		log.Fatal("db open failed", "error", err, "driver", cfg.DBDriver)
	}
	defer dbh.Close()
	store := exercise.NewSQLStore(dbh, cfg.DBDriver)
	events := syncx.NewEventRepo(dbh, "")

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatal("blob store", "error", err)
	}

	sessions := session.NewManager(
		session.WithTTL(cfg.SessionTTL),
		session.WithSolvedRecorder(events),
		session.WithManagerLogger(log),
	)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	api.Mount(r, api.Deps{
		Auth:      auth.NewAuthService(cfg.AuthSecret),
		Author:    auth.Credentials{User: cfg.AuthorUser, PassHash: cfg.AuthorPassHash},
		Guest:     cfg.EnableGuestAuth,
		Store:     store,
		Sessions:  sessions,
		Solves:    events,
		Blobs:     bs,
		Validator: validate.NewValidator(),
		Log:       log,
		Ready: func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return dbh.PingContext(ctx)
		},
	})
	if cfg.AuthorPassHash == "" {
		log.Warn("AUTHOR_PASS_HASH not set, author login disabled")
	}

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r, ReadHeaderTimeout: 10 * time.Second}

	sig, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go reap(sig, sessions, cfg.SessionTTL)
	go func() {
		<-sig.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()

	log.Info("listening", "addr", cfg.HTTPAddr, "mode", cfg.Mode, "db", cfg.DBDriver)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server", "error", err)
	}
}

// reap evicts idle sessions until ctx is done.
func reap(ctx context.Context, m *session.Manager, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	t := time.NewTicker(ttl / 2)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.Reap()
		}
	}
}
