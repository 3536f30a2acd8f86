package domain

import "time"

// ArchivedGame is a room's game as stored once it is reset or abandoned.
type ArchivedGame struct {
	ID        int64
	GameUUID  string
	Room      string
	Moves     []string
	MoveText  string
	Plies     int
	StartedAt time.Time
	EndedAt   time.Time
	Duration  time.Duration
}
