package exercise

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

type memoryStore struct {
	mu        sync.RWMutex
	exercises map[string]Exercise
}

func NewInMemoryStore() Store {
	return &memoryStore{
		exercises: map[string]Exercise{},
	}
}

func (m *memoryStore) PutExercise(_ context.Context, e Exercise) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.exercises[e.ID]; ok {
		e.CreatedAt = prev.CreatedAt
	} else if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().Unix()
	}
	m.exercises[e.ID] = e
	return nil
}

func (m *memoryStore) GetExercise(_ context.Context, id string) (Exercise, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.exercises[id]
	if !ok {
		return Exercise{}, ErrNotFound
	}
	return e, nil
}

func (m *memoryStore) ListExercises(_ context.Context, opts ListOpts) ([]Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q := strings.ToLower(strings.TrimSpace(opts.Q))
	out := make([]Summary, 0, len(m.exercises))
	for _, e := range m.exercises {
		if q != "" && !strings.Contains(strings.ToLower(e.Title), q) {
			continue
		}
		out = append(out, e.Summary())
	}
	// newest first, id as tie breaker (same order as the SQL store)
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].ID < out[j].ID
	})
	return page(out, opts.Limit, opts.Offset), nil
}

func (m *memoryStore) DeleteExercise(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.exercises[id]; !ok {
		return ErrNotFound
	}
	delete(m.exercises, id)
	return nil
}

func page(list []Summary, limit, offset int) []Summary {
	if offset >= len(list) {
		return []Summary{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
