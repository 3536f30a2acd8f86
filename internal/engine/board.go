package engine

import (
	"errors"
	"fmt"
	"strings"
)

// BoardSize is the board width and height.
const BoardSize = 8

// ErrInvalidSquare reports a square or move string outside the board.
var ErrInvalidSquare = errors.New("invalid square")

// Board is an 8x8 grid. Row 0 is rank 8 (black's back rank), row 7 is
// rank 1; column 0 is file a. Board is a value type, so copies are
// independent.
type Board [BoardSize][BoardSize]Piece

// Square addresses a board cell by row and column.
type Square struct {
	Row int
	Col int
}

// Sq is shorthand for Square{Row: row, Col: col}.
func Sq(row, col int) Square { return Square{Row: row, Col: col} }

func (s Square) Valid() bool {
	return s.Row >= 0 && s.Row < BoardSize && s.Col >= 0 && s.Col < BoardSize
}

// Name returns the file/rank name, e.g. Square{6, 4} is "e2".
func (s Square) Name() string {
	return string([]byte{fileOf(s.Col), rankOf(s.Row)})
}

func (s Square) String() string { return s.Name() }

func fileOf(col int) byte { return byte('a' + col) }
func rankOf(row int) byte { return byte('8' - row) }

// ParseSquare parses a name like "e2".
func ParseSquare(name string) (Square, error) {
	name = strings.TrimSpace(name)
	if len(name) != 2 {
		return Square{}, fmt.Errorf("parse square %q: %w", name, ErrInvalidSquare)
	}
	f := name[0] | 0x20 // lower-case
	r := name[1]
	if f < 'a' || f > 'h' || r < '1' || r > '8' {
		return Square{}, fmt.Errorf("parse square %q: %w", name, ErrInvalidSquare)
	}
	return Square{Row: int('8' - r), Col: int(f - 'a')}, nil
}

var startingBoard = Board{
	{"bR", "bN", "bB", "bQ", "bK", "bB", "bN", "bR"},
	{"bp", "bp", "bp", "bp", "bp", "bp", "bp", "bp"},
	{"--", "--", "--", "--", "--", "--", "--", "--"},
	{"--", "--", "--", "--", "--", "--", "--", "--"},
	{"--", "--", "--", "--", "--", "--", "--", "--"},
	{"--", "--", "--", "--", "--", "--", "--", "--"},
	{"wp", "wp", "wp", "wp", "wp", "wp", "wp", "wp"},
	{"wR", "wN", "wB", "wQ", "wK", "wB", "wN", "wR"},
}

// StartingBoard returns the standard initial layout.
func StartingBoard() Board { return startingBoard }

// EmptyBoard returns a board with every cell set to Empty.
func EmptyBoard() Board {
	var b Board
	for r := range b {
		for c := range b[r] {
			b[r][c] = Empty
		}
	}
	return b
}

// At returns the piece on s. s must be on the board.
func (b *Board) At(s Square) Piece { return b[s.Row][s.Col] }

// Set places p on s. s must be on the board.
func (b *Board) Set(s Square, p Piece) { b[s.Row][s.Col] = p }

// Count returns the number of occupied cells.
func (b *Board) Count() int {
	n := 0
	for r := range b {
		for c := range b[r] {
			if !b[r][c].IsEmpty() {
				n++
			}
		}
	}
	return n
}

// String draws the board as text, rank 8 first, with file letters below.
func (b Board) String() string {
	var sb strings.Builder
	for r := 0; r < BoardSize; r++ {
		sb.WriteByte(rankOf(r))
		for c := 0; c < BoardSize; c++ {
			sb.WriteByte(' ')
			sb.WriteString(string(b[r][c]))
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(" ")
	for c := 0; c < BoardSize; c++ {
		sb.WriteString("  ")
		sb.WriteByte(fileOf(c))
	}
	sb.WriteByte('\n')
	return sb.String()
}
