package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/mindengage-cloze/internal/exercise"
	"github.com/mind-engage/mindengage-cloze/internal/logger"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
	ErrForbidden       = errors.New("session belongs to another user")
)

// Manager keeps live sessions in memory and expires them after ttl of
// inactivity. A zero ttl keeps sessions forever.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	ttl      time.Duration
	recorder Recorder
	log      *logger.Logger
	now      func() time.Time
}

type ManagerOption func(*Manager)

func WithTTL(d time.Duration) ManagerOption            { return func(m *Manager) { m.ttl = d } }
func WithSolvedRecorder(r Recorder) ManagerOption      { return func(m *Manager) { m.recorder = r } }
func WithManagerLogger(l *logger.Logger) ManagerOption { return func(m *Manager) { m.log = l } }
func WithManagerClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{sessions: map[string]*Session{}, now: time.Now}
	for _, o := range opts {
		o(m)
	}
	if m.log == nil {
		m.log = logger.NewNop()
	}
	return m
}

// Start opens a new session on ex for userID.
func (m *Manager) Start(ex exercise.Exercise, userID string) (*Session, error) {
	s, err := New(ex,
		WithID(uuid.NewString()),
		WithUser(userID),
		WithRecorder(m.recorder),
		WithLogger(m.log),
		WithClock(m.now),
	)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()
	m.log.Debug("session started", "session_id", s.ID(), "exercise_id", s.ExerciseID(), "user_id", userID)
	return s, nil
}

// Get returns the session id owned by userID. Expired sessions are dropped.
func (m *Manager) Get(id, userID string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.UserID() != userID {
		return nil, ErrForbidden
	}
	if m.expired(s) {
		m.remove(id)
		return nil, ErrSessionExpired
	}
	return s, nil
}

// Drop removes a session; dropping an unknown id is a no-op.
func (m *Manager) Drop(id string) { m.remove(id) }

// Reap removes every expired session and returns how many it removed.
func (m *Manager) Reap() int {
	if m.ttl <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if m.expired(s) {
			delete(m.sessions, id)
			n++
		}
	}
	if n > 0 {
		m.log.Info("sessions reaped", "count", n)
	}
	return n
}

// Len is the number of sessions held, expired or not.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) expired(s *Session) bool {
	return m.ttl > 0 && m.now().Sub(s.idleSince()) > m.ttl
}

func (m *Manager) remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}
