package syncx

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-cloze/internal/db"
	"github.com/mind-engage/mindengage-cloze/internal/session"
)

func newRepo(t *testing.T) *EventRepo {
	t.Helper()
	conn, err := db.Open(context.Background(), db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewEventRepo(conn, "")
}

func TestAppendList(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	require.NoError(t, r.Append(ctx, Event{Type: "A", Key: "k1", DataJSON: `{}`}))
	require.NoError(t, r.Append(ctx, Event{Type: "A", Key: "k2", DataJSON: `{}`}))
	require.NoError(t, r.Append(ctx, Event{Type: "B", Key: "k1", DataJSON: `{}`, SiteID: "edge"}))

	all, err := r.List(ctx, "A", "", 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "k2", all[0].Key)
	assert.Equal(t, "local", all[0].SiteID)

	b, err := r.List(ctx, "B", "k1", 10)
	require.NoError(t, err)
	require.Len(t, b, 1)
	assert.Equal(t, "edge", b[0].SiteID)
}

func TestRecordSolved(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, r.RecordSolved(ctx, session.SolvedEvent{ExerciseID: "ex1", SessionID: "s1", UserID: "u1", SolvedAt: at}))
	require.NoError(t, r.RecordSolved(ctx, session.SolvedEvent{ExerciseID: "ex2", SessionID: "s2", SolvedAt: at}))

	got, err := r.Solves(ctx, "ex1", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "s1", got[0].SessionID)
	assert.Equal(t, "u1", got[0].UserID)
	assert.True(t, at.Equal(got[0].SolvedAt))
}
