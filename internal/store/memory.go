package store

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is used when no Redis URL is configured. Records do not
// survive a restart.
type MemoryStore struct {
	mu    sync.RWMutex
	games map[string]*GameRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{games: make(map[string]*GameRecord)}
}

func (m *MemoryStore) Load(ctx context.Context, room string) (*GameRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.games[strings.TrimSpace(room)]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(rec), nil
}

func (m *MemoryStore) Save(ctx context.Context, rec *GameRecord) error {
	if rec == nil {
		return nil
	}
	m.mu.Lock()
	m.games[strings.TrimSpace(rec.Room)] = clone(rec)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, room string) error {
	m.mu.Lock()
	delete(m.games, strings.TrimSpace(room))
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Rooms(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.games))
	for room := range m.games {
		out = append(out, room)
	}
	sort.Strings(out)
	return out, nil
}
