package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-cloze/internal/cloze"
	"github.com/mind-engage/mindengage-cloze/internal/exercise"
)

func TestManagerStartGet(t *testing.T) {
	m := NewManager()
	s, err := m.Start(capitals(), "u1")
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID())

	got, err := m.Get(s.ID(), "u1")
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = m.Get(s.ID(), "u2")
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = m.Get("nope", "u1")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	m.Drop(s.ID())
	assert.Equal(t, 0, m.Len())
}

func TestManagerStartMalformed(t *testing.T) {
	m := NewManager()
	_, err := m.Start(exercise.Exercise{ID: "x", Text: "[[blank]]"}, "u1")
	assert.ErrorIs(t, err, cloze.ErrMalformedCloze)
	assert.Equal(t, 0, m.Len())
}

func TestManagerExpiry(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	clock := func() time.Time { return now }
	m := NewManager(WithTTL(time.Minute), WithManagerClock(clock))

	a, err := m.Start(capitals(), "u1")
	require.NoError(t, err)
	b, err := m.Start(capitals(), "u1")
	require.NoError(t, err)

	now = now.Add(45 * time.Second)
	require.NoError(t, b.ShowHint("b1"))

	now = now.Add(30 * time.Second)
	_, err = m.Get(a.ID(), "u1")
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Equal(t, 1, m.Len())

	now = now.Add(time.Minute)
	assert.Equal(t, 1, m.Reap())
	assert.Equal(t, 0, m.Len())
}

func TestManagerGetChecksOwnerBeforeExpiry(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	clock := func() time.Time { return now }
	m := NewManager(WithTTL(time.Minute), WithManagerClock(clock))

	s, err := m.Start(capitals(), "u1")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = m.Get(s.ID(), "u2")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, 1, m.Len(), "another user's request must not evict the session")

	_, err = m.Get(s.ID(), "u1")
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Equal(t, 0, m.Len())
}
