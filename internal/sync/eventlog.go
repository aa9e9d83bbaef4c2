package syncx

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mind-engage/mindengage-cloze/internal/session"
)

// TypeExerciseSolved is logged once per session that solves an exercise.
const TypeExerciseSolved = "ExerciseSolved"

type Event struct {
	Offset    int64  `json:"offset"`
	SiteID    string `json:"site_id"`
	Type      string `json:"type"`
	Key       string `json:"key"`
	DataJSON  string `json:"data"`
	CreatedAt int64  `json:"created_at"`
}

type EventRepo struct {
	db     *sql.DB
	siteID string
	now    func() time.Time
}

func NewEventRepo(db *sql.DB, siteID string) *EventRepo {
	if siteID == "" {
		siteID = "local"
	}
	return &EventRepo{db: db, siteID: siteID, now: time.Now}
}

func (r *EventRepo) Append(ctx context.Context, e Event) error {
	if e.SiteID == "" {
		e.SiteID = r.siteID
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_log (site_id, typ, key, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		e.SiteID, e.Type, e.Key, e.DataJSON, r.now().Unix())
	return err
}

// List returns events of typ for key, newest first. An empty key matches
// every key.
func (r *EventRepo) List(ctx context.Context, typ, key string, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	q := `SELECT "offset", site_id, typ, key, data, created_at FROM event_log WHERE typ = $1`
	args := []any{typ}
	if key != "" {
		q += ` AND key = $2`
		args = append(args, key)
	}
	q += fmt.Sprintf(` ORDER BY "offset" DESC LIMIT %d`, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Offset, &e.SiteID, &e.Type, &e.Key, &e.DataJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// RecordSolved logs a solved session keyed by exercise id.
func (r *EventRepo) RecordSolved(ctx context.Context, ev session.SolvedEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return r.Append(ctx, Event{Type: TypeExerciseSolved, Key: ev.ExerciseID, DataJSON: string(b)})
}

// Solves decodes the solved events logged for an exercise.
func (r *EventRepo) Solves(ctx context.Context, exerciseID string, limit int) ([]session.SolvedEvent, error) {
	evs, err := r.List(ctx, TypeExerciseSolved, exerciseID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]session.SolvedEvent, 0, len(evs))
	for _, e := range evs {
		var s session.SolvedEvent
		if err := json.Unmarshal([]byte(e.DataJSON), &s); err != nil {
			return nil, fmt.Errorf("event %d: %w", e.Offset, err)
		}
		out = append(out, s)
	}
	return out, nil
}

var _ session.Recorder = (*EventRepo)(nil)
