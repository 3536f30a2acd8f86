package engine

import (
	"fmt"
	"strings"
)

// Move is an immutable piece relocation. The moved and captured pieces
// are snapshotted from the board the move was built against, so a Move
// must be applied to an equivalent board or UndoMove will restore the
// wrong captured piece.
type Move struct {
	start, end    Square
	pieceMoved    Piece
	pieceCaptured Piece
	id            int
}

// NewMove builds a move from start to end against board. Squares are not
// validated; callers guarantee both are on the board.
func NewMove(start, end Square, board *Board) Move {
	return Move{
		start:         start,
		end:           end,
		pieceMoved:    board.At(start),
		pieceCaptured: board.At(end),
		id:            start.Row*1000 + start.Col*100 + end.Row*10 + end.Col,
	}
}

// ParseMove builds a move from a square-pair string like "e2e4".
func ParseMove(s string, board *Board) (Move, error) {
	s = strings.TrimSpace(s)
	if len(s) != 4 {
		return Move{}, fmt.Errorf("parse move %q: %w", s, ErrInvalidSquare)
	}
	from, err := ParseSquare(s[:2])
	if err != nil {
		return Move{}, err
	}
	to, err := ParseSquare(s[2:])
	if err != nil {
		return Move{}, err
	}
	return NewMove(from, to, board), nil
}

func (m Move) Start() Square        { return m.start }
func (m Move) End() Square          { return m.end }
func (m Move) PieceMoved() Piece    { return m.pieceMoved }
func (m Move) PieceCaptured() Piece { return m.pieceCaptured }

// IsCapture reports whether the snapshot had a piece on the destination.
func (m Move) IsCapture() bool { return !m.pieceCaptured.IsEmpty() }

// ID is the coordinate-only identity used by Equal.
func (m Move) ID() int { return m.id }

// Equal compares coordinates only; pieces are ignored.
func (m Move) Equal(other Move) bool { return m.id == other.id }

// Algebraic returns the square pair, origin first ("e2e4").
func (m Move) Algebraic() string { return m.start.Name() + m.end.Name() }

func (m Move) String() string {
	return fmt.Sprintf("%s %s", m.pieceMoved, m.Algebraic())
}
