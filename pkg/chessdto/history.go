package chessdto

import "time"

type GameSummary struct {
	ID       int64
	GameID   string
	Room     string
	Plies    int
	MoveText string
	EndedAt  time.Time
}
