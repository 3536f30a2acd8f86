package engine

import (
	"sort"
	"strings"
	"testing"

	nchess "github.com/corentings/chess/v2"
	"github.com/google/go-cmp/cmp"
)

// In positions without checks, pins, castling rights in play or en passant
// targets, pseudo-legal and legal move sets coincide, so the rules library
// serves as an oracle.

func referenceMoves(t *testing.T, line []string) []string {
	t.Helper()
	game := nchess.NewGame()
	for _, mv := range line {
		if err := game.PushNotationMove(mv, nchess.UCINotation{}, nil); err != nil {
			t.Fatalf("reference push %s: %v", mv, err)
		}
	}
	var out []string
	for _, mv := range game.ValidMoves() {
		out = append(out, mv.String())
	}
	sort.Strings(out)
	return out
}

func TestMoveSetsMatchReference(t *testing.T) {
	lines := [][]string{
		nil,
		{"e2e4"},
		{"e2e4", "e7e5"},
		{"e2e4", "e7e5", "g1f3", "b8c6"},
		{"d2d4", "d7d5", "c2c4", "g8f6"},
	}
	for _, line := range lines {
		name := strings.Join(line, " ")
		if name == "" {
			name = "start"
		}
		t.Run(name, func(t *testing.T) {
			gs := NewGameState()
			for _, s := range line {
				gs.MakeMove(mustMove(t, gs, s))
			}
			got := algebraic(gs.ValidMoves())
			sort.Strings(got)
			if diff := cmp.Diff(referenceMoves(t, line), got); diff != "" {
				t.Fatalf("move set mismatch (-reference +engine):\n%s", diff)
			}
		})
	}
}

func TestStartingBoardMatchesReference(t *testing.T) {
	ref := nchess.NewGame().Position().Board()
	b := StartingBoard()
	for r := 0; r < BoardSize; r++ {
		for c := 0; c < BoardSize; c++ {
			sq := nchess.NewSquare(nchess.File(c), nchess.Rank(7-r))
			if got, want := b[r][c], fromReference(ref.Piece(sq)); got != want {
				t.Fatalf("%s: engine %s, reference %s", Sq(r, c), got, want)
			}
		}
	}
}

func fromReference(p nchess.Piece) Piece {
	if p == nchess.NoPiece {
		return Empty
	}
	color := White
	if p.Color() == nchess.Black {
		color = Black
	}
	var kind PieceKind
	switch p.Type() {
	case nchess.Pawn:
		kind = Pawn
	case nchess.Rook:
		kind = Rook
	case nchess.Knight:
		kind = Knight
	case nchess.Bishop:
		kind = Bishop
	case nchess.Queen:
		kind = Queen
	case nchess.King:
		kind = King
	}
	return NewPiece(color, kind)
}
