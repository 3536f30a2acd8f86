package chessdto

import "time"

// RequestMeta identifies where a command came from.
type RequestMeta struct {
	Room   string
	Sender string
}

// BoardState is a snapshot of a room's game after a command.
type BoardState struct {
	GameID     string
	Room       string
	Turn       string
	Ply        int
	Moves      []string
	LastMove   string
	Selected   string
	Targets    []string
	ValidMoves int
	BoardImage []byte
	StartedAt  time.Time
	UpdatedAt  time.Time
}
