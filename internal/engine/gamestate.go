// Package engine holds the board, turn and move log of a game and
// enumerates pseudo-legal moves for the side to move.
//
// Generated moves obey per-piece movement rules only. King safety is
// not checked, and castling, en passant and promotion are not generated.
package engine

// GameState owns the board, the side to move and the applied-move log.
// It is not safe for concurrent use.
type GameState struct {
	board       Board
	whiteToMove bool
	moveLog     []Move
}

// NewGameState returns the standard starting position with white to move.
func NewGameState() *GameState {
	return &GameState{board: StartingBoard(), whiteToMove: true}
}

// NewGameStateFromBoard starts from an arbitrary layout with an empty log.
func NewGameStateFromBoard(board Board, whiteToMove bool) *GameState {
	return &GameState{board: board, whiteToMove: whiteToMove}
}

// Board returns a copy of the current board.
func (gs *GameState) Board() Board { return gs.board }

// BoardRef exposes the live board for building moves against it.
// Callers must not mutate it.
func (gs *GameState) BoardRef() *Board { return &gs.board }

func (gs *GameState) WhiteToMove() bool { return gs.whiteToMove }

// Turn returns the side to move.
func (gs *GameState) Turn() Color {
	if gs.whiteToMove {
		return White
	}
	return Black
}

// MoveLog returns a copy of the applied moves, oldest first.
func (gs *GameState) MoveLog() []Move {
	return append([]Move(nil), gs.moveLog...)
}

// LastMove returns the most recently applied move.
func (gs *GameState) LastMove() (Move, bool) {
	if len(gs.moveLog) == 0 {
		return Move{}, false
	}
	return gs.moveLog[len(gs.moveLog)-1], true
}

// MakeMove applies m without any legality or bounds check. Callers pass
// moves taken from ValidMoves.
func (gs *GameState) MakeMove(m Move) {
	gs.board.Set(m.start, Empty)
	gs.board.Set(m.end, m.pieceMoved)
	gs.moveLog = append(gs.moveLog, m)
	gs.whiteToMove = !gs.whiteToMove
}

// UndoMove reverts the last applied move. It is a no-op on an empty log.
func (gs *GameState) UndoMove() (Move, bool) {
	if len(gs.moveLog) == 0 {
		return Move{}, false
	}
	m := gs.moveLog[len(gs.moveLog)-1]
	gs.moveLog = gs.moveLog[:len(gs.moveLog)-1]
	gs.board.Set(m.start, m.pieceMoved)
	gs.board.Set(m.end, m.pieceCaptured)
	gs.whiteToMove = !gs.whiteToMove
	return m, true
}

// ValidMoves returns the moves offered to the player. It is the same as
// AllMoves: moves that leave the mover's king in check are included.
func (gs *GameState) ValidMoves() []Move {
	return gs.AllMoves()
}

// FindMove builds a candidate from start to end against the current
// board and returns the matching entry of ValidMoves.
func (gs *GameState) FindMove(start, end Square) (Move, bool) {
	if !start.Valid() || !end.Valid() {
		return Move{}, false
	}
	candidate := NewMove(start, end, &gs.board)
	for _, m := range gs.ValidMoves() {
		if candidate.Equal(m) {
			return m, true
		}
	}
	return Move{}, false
}
