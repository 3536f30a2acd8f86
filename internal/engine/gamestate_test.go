package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func algebraic(moves []Move) []string {
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, m.Algebraic())
	}
	return out
}

func mustMove(t *testing.T, gs *GameState, s string) Move {
	t.Helper()
	m, err := ParseMove(s, gs.BoardRef())
	if err != nil {
		t.Fatalf("ParseMove(%q): %v", s, err)
	}
	found, ok := gs.FindMove(m.Start(), m.End())
	if !ok {
		t.Fatalf("move %s not in valid moves %v", s, algebraic(gs.ValidMoves()))
	}
	return found
}

func TestNewGameStateStartingLayout(t *testing.T) {
	gs := NewGameState()
	b := gs.Board()

	if got := b.Count(); got != 32 {
		t.Fatalf("expected 32 pieces, got %d", got)
	}
	for r := 2; r <= 5; r++ {
		for c := 0; c < BoardSize; c++ {
			if b[r][c] != Empty {
				t.Fatalf("expected empty %s, got %s", Sq(r, c), b[r][c])
			}
		}
	}
	back := []PieceKind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for c, k := range back {
		if b[0][c] != NewPiece(Black, k) || b[7][c] != NewPiece(White, k) {
			t.Fatalf("back rank mismatch at col %d: %s / %s", c, b[0][c], b[7][c])
		}
		if b[1][c] != "bp" || b[6][c] != "wp" {
			t.Fatalf("pawn rank mismatch at col %d", c)
		}
	}
	if !gs.WhiteToMove() || gs.Turn() != White {
		t.Fatalf("white should move first")
	}
	if len(gs.MoveLog()) != 0 {
		t.Fatalf("move log should start empty")
	}
}

func TestInitialMovesWhite(t *testing.T) {
	gs := NewGameState()
	want := []string{
		"a2a3", "a2a4", "b2b3", "b2b4", "c2c3", "c2c4", "d2d3", "d2d4",
		"e2e3", "e2e4", "f2f3", "f2f4", "g2g3", "g2g4", "h2h3", "h2h4",
		"b1c3", "b1a3", "g1h3", "g1f3",
	}
	if diff := cmp.Diff(want, algebraic(gs.AllMoves())); diff != "" {
		t.Fatalf("white opening moves mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(algebraic(gs.AllMoves()), algebraic(gs.ValidMoves())); diff != "" {
		t.Fatalf("ValidMoves should equal AllMoves:\n%s", diff)
	}
}

func TestInitialMovesBlackAfterOneMove(t *testing.T) {
	gs := NewGameState()
	gs.MakeMove(mustMove(t, gs, "e2e4"))

	want := []string{
		"b8c6", "b8a6", "g8h6", "g8f6",
		"a7a6", "a7a5", "b7b6", "b7b5", "c7c6", "c7c5", "d7d6", "d7d5",
		"e7e6", "e7e5", "f7f6", "f7f5", "g7g6", "g7g5", "h7h6", "h7h5",
	}
	if diff := cmp.Diff(want, algebraic(gs.AllMoves())); diff != "" {
		t.Fatalf("black reply moves mismatch (-want +got):\n%s", diff)
	}
}

func TestMakeUndoRoundTripFromStart(t *testing.T) {
	gs := NewGameState()
	for _, m := range gs.ValidMoves() {
		before := gs.Board()
		gs.MakeMove(m)
		if gs.WhiteToMove() {
			t.Fatalf("%s: turn did not flip", m.Algebraic())
		}
		if len(gs.MoveLog()) != 1 {
			t.Fatalf("%s: move not logged", m.Algebraic())
		}
		undone, ok := gs.UndoMove()
		if !ok || !undone.Equal(m) {
			t.Fatalf("%s: undo returned %v %v", m.Algebraic(), undone, ok)
		}
		if gs.Board() != before {
			t.Fatalf("%s: board not restored:\n%s", m.Algebraic(), gs.Board())
		}
		if !gs.WhiteToMove() || len(gs.MoveLog()) != 0 {
			t.Fatalf("%s: turn or log not restored", m.Algebraic())
		}
	}
}

func TestMakeMoveCaptureAndUndo(t *testing.T) {
	gs := NewGameState()
	for _, s := range []string{"e2e4", "d7d5", "e4d5"} {
		gs.MakeMove(mustMove(t, gs, s))
	}
	b := gs.Board()
	if b[3][3] != "wp" || b[4][4] != Empty {
		t.Fatalf("capture not applied:\n%s", b)
	}
	last, _ := gs.LastMove()
	if last.PieceCaptured() != "bp" || !last.IsCapture() {
		t.Fatalf("expected bp captured, got %s", last.PieceCaptured())
	}
	gs.UndoMove()
	b = gs.Board()
	if b[3][3] != "bp" || b[4][4] != "wp" {
		t.Fatalf("capture not reverted:\n%s", b)
	}
	if gs.WhiteToMove() != true {
		t.Fatalf("white should be to move after undoing white's capture")
	}
}

func TestUndoMoveEmptyLogIsNoop(t *testing.T) {
	gs := NewGameState()
	if _, ok := gs.UndoMove(); ok {
		t.Fatalf("undo on empty log should report false")
	}
	if gs.Board() != StartingBoard() || !gs.WhiteToMove() {
		t.Fatalf("state changed by empty undo")
	}
}

func TestUndoSequenceRestoresStart(t *testing.T) {
	gs := NewGameState()
	for _, s := range []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1b5", "a7a6", "b5c6", "d7c6"} {
		gs.MakeMove(mustMove(t, gs, s))
	}
	if len(gs.MoveLog()) != 8 {
		t.Fatalf("expected 8 logged moves, got %d", len(gs.MoveLog()))
	}
	for i := 0; i < 8; i++ {
		gs.UndoMove()
	}
	if gs.Board() != StartingBoard() || !gs.WhiteToMove() || len(gs.MoveLog()) != 0 {
		t.Fatalf("full undo did not restore start:\n%s", gs.Board())
	}
}

// A move built against an older board carries a stale capture snapshot;
// undo then restores that stale piece.
func TestStaleSnapshotUndoRestoresSnapshot(t *testing.T) {
	gs := NewGameState()
	stale := NewMove(Sq(7, 6), Sq(5, 5), gs.BoardRef()) // g1f3, f3 empty now

	board := gs.Board()
	board.Set(Sq(5, 5), "bN")
	gs = NewGameStateFromBoard(board, true)

	fresh, ok := gs.FindMove(Sq(7, 6), Sq(5, 5))
	if !ok {
		t.Fatalf("g1f3 capture should be valid")
	}
	if !fresh.Equal(stale) {
		t.Fatalf("fresh and stale moves share coordinates and must compare equal")
	}

	gs.MakeMove(fresh)
	gs.UndoMove()
	if got := gs.Board()[5][5]; got != "bN" {
		t.Fatalf("fresh move undo should restore bN, got %s", got)
	}

	gs.MakeMove(stale)
	gs.UndoMove()
	if got := gs.Board()[5][5]; got != Empty {
		t.Fatalf("stale move undo restores its snapshot (empty), got %s", got)
	}
}

func TestFindMoveRejectsUnlisted(t *testing.T) {
	gs := NewGameState()
	if _, ok := gs.FindMove(Sq(6, 4), Sq(3, 4)); ok {
		t.Fatalf("triple pawn step must not be found")
	}
	if _, ok := gs.FindMove(Sq(1, 4), Sq(3, 4)); ok {
		t.Fatalf("black move must not be found on white's turn")
	}
	if _, ok := gs.FindMove(Sq(-1, 0), Sq(3, 4)); ok {
		t.Fatalf("off-board square must not be found")
	}
}
