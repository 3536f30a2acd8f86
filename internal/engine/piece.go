package engine

// Color identifies the side owning a piece.
type Color byte

const (
	NoColor Color = 0
	White   Color = 'w'
	Black   Color = 'b'
)

// Opponent returns the other side. NoColor maps to itself.
func (c Color) Opponent() Color {
	switch c {
	case White:
		return Black
	case Black:
		return White
	default:
		return NoColor
	}
}

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	default:
		return "none"
	}
}

// PieceKind is the closed set of piece types. The byte value is the
// second symbol of a piece code.
type PieceKind byte

const (
	NoKind PieceKind = 0
	Pawn   PieceKind = 'p'
	Rook   PieceKind = 'R'
	Knight PieceKind = 'N'
	Bishop PieceKind = 'B'
	Queen  PieceKind = 'Q'
	King   PieceKind = 'K'
)

// Piece is a two-symbol board cell code: color then kind ("wp", "bK").
// Empty cells hold the "--" sentinel.
type Piece string

const Empty Piece = "--"

// All twelve piece codes, white first.
var Pieces = []Piece{
	"wp", "wR", "wN", "wB", "wQ", "wK",
	"bp", "bR", "bN", "bB", "bQ", "bK",
}

// NewPiece builds the code for a color and kind.
func NewPiece(c Color, k PieceKind) Piece {
	if c == NoColor || k == NoKind {
		return Empty
	}
	return Piece([]byte{byte(c), byte(k)})
}

func (p Piece) IsEmpty() bool { return p == Empty || len(p) != 2 }

func (p Piece) Color() Color {
	if p.IsEmpty() {
		return NoColor
	}
	switch Color(p[0]) {
	case White:
		return White
	case Black:
		return Black
	}
	return NoColor
}

func (p Piece) Kind() PieceKind {
	if p.IsEmpty() {
		return NoKind
	}
	switch k := PieceKind(p[1]); k {
	case Pawn, Rook, Knight, Bishop, Queen, King:
		return k
	}
	return NoKind
}

func (p Piece) String() string { return string(p) }
