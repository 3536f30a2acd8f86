// Package store persists the move log of each room's game so a restart
// can replay it.
package store

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("game not found")

// GameRecord is the persisted form of a room's game. Moves are square
// pairs ("e2e4") in play order; replaying them from the starting layout
// rebuilds the board.
type GameRecord struct {
	ID        string    `json:"id"`
	Room      string    `json:"room"`
	Moves     []string  `json:"moves"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Store interface {
	Load(ctx context.Context, room string) (*GameRecord, error)
	Save(ctx context.Context, rec *GameRecord) error
	Delete(ctx context.Context, room string) error
	Rooms(ctx context.Context) ([]string, error)
}

func clone(rec *GameRecord) *GameRecord {
	cp := *rec
	cp.Moves = append([]string(nil), rec.Moves...)
	return &cp
}
