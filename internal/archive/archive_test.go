package archive

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/park285/Cheese-ClickChess/internal/domain"
)

func TestMoveText(t *testing.T) {
	cases := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"e2e4"}, "1. e2e4"},
		{[]string{"e2e4", "e7e5"}, "1. e2e4 e7e5"},
		{[]string{"e2e4", "e7e5", "g1f3"}, "1. e2e4 e7e5 2. g1f3"},
	}
	for _, tc := range cases {
		if got := MoveText(tc.in); got != tc.want {
			t.Fatalf("MoveText(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMemoryRepository(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	id1, err := repo.InsertGame(ctx, &domain.ArchivedGame{GameUUID: "a", Room: "r", Moves: []string{"e2e4"}, EndedAt: base})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	id2, err := repo.InsertGame(ctx, &domain.ArchivedGame{GameUUID: "b", Room: "r", EndedAt: base.Add(time.Minute)})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := repo.InsertGame(ctx, &domain.ArchivedGame{GameUUID: "a", Room: "r"}); !errors.Is(err, ErrDuplicateGame) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if _, err := repo.InsertGame(ctx, &domain.ArchivedGame{GameUUID: "c", Room: "other", EndedAt: base}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	recent, err := repo.RecentGames(ctx, "r", 0)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 || recent[0].ID != id2 || recent[1].ID != id1 {
		t.Fatalf("unexpected order: %+v", recent)
	}
	recent[1].Moves[0] = "mutated"

	g, err := repo.GetGame(ctx, id1)
	if err != nil || g == nil {
		t.Fatalf("get: %v %v", g, err)
	}
	if g.Moves[0] != "e2e4" {
		t.Fatalf("stored game was mutated through a returned copy")
	}
	if g, _ := repo.GetGame(ctx, 999); g != nil {
		t.Fatalf("expected nil for unknown id")
	}
}

type recordingExec struct {
	stmts []string
	err   error
}

func (r *recordingExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	r.stmts = append(r.stmts, strings.TrimSpace(query))
	return nil, r.err
}

func TestEnsureSchema(t *testing.T) {
	db := &recordingExec{}
	if err := EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if len(db.stmts) != 2 {
		t.Fatalf("expected table and index statements, got %d: %q", len(db.stmts), db.stmts)
	}
	if !strings.HasPrefix(db.stmts[0], "CREATE TABLE IF NOT EXISTS clickchess_games") {
		t.Fatalf("unexpected first statement %q", db.stmts[0])
	}
	if !strings.HasPrefix(db.stmts[1], "CREATE INDEX IF NOT EXISTS clickchess_games_room_ended_idx") {
		t.Fatalf("unexpected second statement %q", db.stmts[1])
	}

	failing := &recordingExec{err: errors.New("permission denied")}
	if err := EnsureSchema(context.Background(), failing); err == nil {
		t.Fatalf("expected schema error")
	}
	if len(failing.stmts) != 1 {
		t.Fatalf("should stop at the first failure, ran %d", len(failing.stmts))
	}
}
