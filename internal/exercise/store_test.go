package exercise

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-cloze/internal/db"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	conn, err := db.Open(context.Background(), db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return map[string]Store{
		"memory": NewInMemoryStore(),
		"sqlite": NewSQLStore(conn, string(db.DriverSQLite)),
	}
}

func TestStores(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			a := sample()
			a.CreatedAt = 100
			b := sample()
			b.ID, b.Title, b.CreatedAt = "birds", "Birds of prey", 200
			c := sample()
			c.ID, c.Title, c.CreatedAt = "cats", "Big cats", 200
			for _, e := range []Exercise{a, b, c} {
				require.NoError(t, s.PutExercise(ctx, e))
			}

			got, err := s.GetExercise(ctx, "animals")
			require.NoError(t, err)
			assert.Equal(t, a.Text, got.Text)
			assert.Equal(t, a.Blanks, got.Blanks)
			assert.Equal(t, a.Snippets, got.Snippets)
			assert.Equal(t, int64(100), got.CreatedAt)

			list, err := s.ListExercises(ctx, ListOpts{})
			require.NoError(t, err)
			require.Len(t, list, 3)
			assert.Equal(t, []string{"birds", "cats", "animals"}, []string{list[0].ID, list[1].ID, list[2].ID})
			assert.Equal(t, 1, list[0].BlankCount)

			list, err = s.ListExercises(ctx, ListOpts{Q: "BIG", Limit: 10})
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.Equal(t, "cats", list[0].ID)

			list, err = s.ListExercises(ctx, ListOpts{Limit: 1, Offset: 1})
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.Equal(t, "cats", list[0].ID)

			a.Title = "Animals v2"
			require.NoError(t, s.PutExercise(ctx, a))
			got, err = s.GetExercise(ctx, "animals")
			require.NoError(t, err)
			assert.Equal(t, "Animals v2", got.Title)

			require.NoError(t, s.DeleteExercise(ctx, "animals"))
			_, err = s.GetExercise(ctx, "animals")
			assert.ErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, s.DeleteExercise(ctx, "animals"), ErrNotFound)
		})
	}
}
