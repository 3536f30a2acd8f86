package engine

import (
	"errors"
	"testing"
)

func TestMoveAlgebraic(t *testing.T) {
	b := StartingBoard()
	m := NewMove(Sq(6, 4), Sq(4, 4), &b)
	if got := m.Algebraic(); got != "e2e4" {
		t.Fatalf("expected e2e4, got %q", got)
	}
	if m.PieceMoved() != "wp" || m.PieceCaptured() != Empty {
		t.Fatalf("unexpected snapshot: %s / %s", m.PieceMoved(), m.PieceCaptured())
	}
	if m.ID() != 6444 {
		t.Fatalf("expected id 6444, got %d", m.ID())
	}

	corner := NewMove(Sq(0, 0), Sq(7, 7), &b)
	if got := corner.Algebraic(); got != "a8h1" {
		t.Fatalf("expected a8h1, got %q", got)
	}
}

func TestMoveEqualIgnoresPieces(t *testing.T) {
	start := StartingBoard()
	empty := EmptyBoard()
	a := NewMove(Sq(6, 4), Sq(4, 4), &start)
	b := NewMove(Sq(6, 4), Sq(4, 4), &empty)
	if a.PieceMoved() == b.PieceMoved() {
		t.Fatalf("test setup: snapshots should differ")
	}
	if !a.Equal(b) || !b.Equal(a) {
		t.Fatalf("moves with equal coordinates must compare equal")
	}
	c := NewMove(Sq(6, 4), Sq(5, 4), &start)
	if a.Equal(c) {
		t.Fatalf("different destinations must not compare equal")
	}
}

func TestParseSquare(t *testing.T) {
	sq, err := ParseSquare("e2")
	if err != nil {
		t.Fatalf("ParseSquare: %v", err)
	}
	if sq != Sq(6, 4) {
		t.Fatalf("expected (6,4), got %+v", sq)
	}
	if sq, _ := ParseSquare("A8"); sq != Sq(0, 0) {
		t.Fatalf("upper-case file should parse, got %+v", sq)
	}
	for _, bad := range []string{"", "e", "e9", "i1", "e0", "e22"} {
		if _, err := ParseSquare(bad); !errors.Is(err, ErrInvalidSquare) {
			t.Fatalf("ParseSquare(%q): expected ErrInvalidSquare, got %v", bad, err)
		}
	}
}

func TestParseMove(t *testing.T) {
	b := StartingBoard()
	m, err := ParseMove(" g1f3 ", &b)
	if err != nil {
		t.Fatalf("ParseMove: %v", err)
	}
	if m.Start() != Sq(7, 6) || m.End() != Sq(5, 5) || m.PieceMoved() != "wN" {
		t.Fatalf("unexpected move %+v", m)
	}
	for _, bad := range []string{"g1", "g1f9", "z1f3", "g1-f3"} {
		if _, err := ParseMove(bad, &b); !errors.Is(err, ErrInvalidSquare) {
			t.Fatalf("ParseMove(%q): expected ErrInvalidSquare, got %v", bad, err)
		}
	}
}

func TestPieceAccessors(t *testing.T) {
	if Piece("bQ").Color() != Black || Piece("bQ").Kind() != Queen {
		t.Fatalf("bQ accessors")
	}
	if Empty.Color() != NoColor || Empty.Kind() != NoKind || !Empty.IsEmpty() {
		t.Fatalf("empty accessors")
	}
	if NewPiece(White, Knight) != "wN" {
		t.Fatalf("NewPiece")
	}
	if White.Opponent() != Black || Black.Opponent() != White {
		t.Fatalf("Opponent")
	}
	if len(Pieces) != 12 {
		t.Fatalf("expected 12 piece codes")
	}
}
