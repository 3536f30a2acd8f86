// Package archive keeps finished room games in Postgres.
package archive

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/park285/Cheese-ClickChess/internal/domain"
)

var ErrDuplicateGame = errors.New("archived game already exists")

//go:embed schema.sql
var schemaSQL string

type Repository interface {
	InsertGame(ctx context.Context, game *domain.ArchivedGame) (int64, error)
	RecentGames(ctx context.Context, room string, limit int) ([]*domain.ArchivedGame, error)
	GetGame(ctx context.Context, id int64) (*domain.ArchivedGame, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// Open connects to databaseURL with the postgres driver, pings it and
// creates the archive table when missing.
func Open(databaseURL string) (*sql.DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// EnsureSchema runs each statement of the embedded schema. Every statement
// is idempotent.
func EnsureSchema(ctx context.Context, db execer) error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply archive schema: %w", err)
		}
	}
	return nil
}

const selectColumns = `
	id,
	game_uuid,
	room,
	moves,
	move_text,
	plies,
	started_at,
	ended_at,
	duration_ms`

func (r *repository) InsertGame(ctx context.Context, game *domain.ArchivedGame) (int64, error) {
	if game == nil {
		return 0, fmt.Errorf("nil archived game")
	}
	moves, err := json.Marshal(game.Moves)
	if err != nil {
		return 0, fmt.Errorf("marshal moves: %w", err)
	}

	const query = `
		INSERT INTO clickchess_games (
			game_uuid,
			room,
			moves,
			move_text,
			plies,
			started_at,
			ended_at,
			duration_ms
		)
		VALUES ($1, $2, $3::jsonb, $4, $5, $6, $7, $8)
		ON CONFLICT (game_uuid) DO NOTHING
		RETURNING id`

	var id sql.NullInt64
	err = r.db.QueryRowContext(ctx, query,
		game.GameUUID,
		game.Room,
		moves,
		game.MoveText,
		game.Plies,
		game.StartedAt,
		game.EndedAt,
		game.Duration.Milliseconds(),
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !id.Valid) {
		return 0, ErrDuplicateGame
	}
	if err != nil {
		return 0, fmt.Errorf("insert archived game: %w", err)
	}
	return id.Int64, nil
}

func (r *repository) RecentGames(ctx context.Context, room string, limit int) ([]*domain.ArchivedGame, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `SELECT` + selectColumns + `
		FROM clickchess_games
		WHERE room = $1
		ORDER BY ended_at DESC, id DESC
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, room, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent games: %w", err)
	}
	defer rows.Close()

	var out []*domain.ArchivedGame
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent games: %w", err)
	}
	return out, nil
}

func (r *repository) GetGame(ctx context.Context, id int64) (*domain.ArchivedGame, error) {
	query := `SELECT` + selectColumns + `
		FROM clickchess_games
		WHERE id = $1`
	g, err := scanGame(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return g, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (*domain.ArchivedGame, error) {
	var (
		g          domain.ArchivedGame
		moves      []byte
		durationMS int64
	)
	if err := row.Scan(&g.ID, &g.GameUUID, &g.Room, &moves, &g.MoveText, &g.Plies, &g.StartedAt, &g.EndedAt, &durationMS); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan archived game: %w", err)
	}
	if len(moves) > 0 {
		if err := json.Unmarshal(moves, &g.Moves); err != nil {
			return nil, fmt.Errorf("decode moves: %w", err)
		}
	}
	g.Duration = time.Duration(durationMS) * time.Millisecond
	return &g, nil
}
