package archive

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/park285/Cheese-ClickChess/internal/domain"
)

// memrepo is used when no database is configured.
type memrepo struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]*domain.ArchivedGame
	byUUID map[string]*domain.ArchivedGame
	byRoom map[string][]*domain.ArchivedGame
}

func NewMemoryRepository() Repository {
	return &memrepo{
		byID:   make(map[int64]*domain.ArchivedGame),
		byUUID: make(map[string]*domain.ArchivedGame),
		byRoom: make(map[string][]*domain.ArchivedGame),
	}
}

func (m *memrepo) InsertGame(ctx context.Context, game *domain.ArchivedGame) (int64, error) {
	if game == nil {
		return 0, ErrDuplicateGame
	}
	key := strings.TrimSpace(game.GameUUID)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byUUID[key]; exists {
		return 0, ErrDuplicateGame
	}
	m.nextID++
	cp := copyGame(game)
	cp.ID = m.nextID
	m.byID[cp.ID] = cp
	m.byUUID[key] = cp
	m.byRoom[cp.Room] = append(m.byRoom[cp.Room], cp)
	return cp.ID, nil
}

func (m *memrepo) RecentGames(ctx context.Context, room string, limit int) ([]*domain.ArchivedGame, error) {
	if limit <= 0 {
		limit = 10
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := make([]*domain.ArchivedGame, 0, len(m.byRoom[room]))
	for _, g := range m.byRoom[room] {
		items = append(items, copyGame(g))
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].EndedAt.Equal(items[j].EndedAt) {
			return items[i].EndedAt.After(items[j].EndedAt)
		}
		return items[i].ID > items[j].ID
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (m *memrepo) GetGame(ctx context.Context, id int64) (*domain.ArchivedGame, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	return copyGame(g), nil
}

func copyGame(g *domain.ArchivedGame) *domain.ArchivedGame {
	cp := *g
	cp.Moves = append([]string(nil), g.Moves...)
	return &cp
}
