package engine

type offset struct{ dr, dc int }

var (
	rookDirections   = []offset{{-1, 0}, {0, -1}, {1, 0}, {0, 1}}
	bishopDirections = []offset{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	knightOffsets    = []offset{{1, 2}, {1, -2}, {-1, 2}, {-1, -2}, {2, 1}, {2, -1}, {-2, 1}, {-2, -1}}
	kingOffsets      = []offset{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}, {-1, 0}, {0, -1}, {1, 0}, {0, 1}}
)

// AllMoves scans the board row by row and collects the pseudo-legal
// moves of every piece belonging to the side to move. The order is
// stable: cell scan order, then each generator's own order.
func (gs *GameState) AllMoves() []Move {
	moves := make([]Move, 0, 48)
	turn := gs.Turn()
	for r := 0; r < BoardSize; r++ {
		for c := 0; c < BoardSize; c++ {
			p := gs.board[r][c]
			if p.Color() != turn {
				continue
			}
			switch p.Kind() {
			case Pawn:
				moves = gs.pawnMoves(r, c, moves)
			case Rook:
				moves = gs.rookMoves(r, c, moves)
			case Knight:
				moves = gs.knightMoves(r, c, moves)
			case Bishop:
				moves = gs.bishopMoves(r, c, moves)
			case Queen:
				moves = gs.queenMoves(r, c, moves)
			case King:
				moves = gs.kingMoves(r, c, moves)
			}
		}
	}
	return moves
}

func (gs *GameState) add(moves []Move, r, c, er, ec int) []Move {
	return append(moves, NewMove(Sq(r, c), Sq(er, ec), &gs.board))
}

// pawnMoves: single step, then double step from the home rank (only when
// the single step was possible), then captures to the left and right.
// No en passant or promotion.
func (gs *GameState) pawnMoves(r, c int, moves []Move) []Move {
	dir, home, enemy := -1, 6, Black
	if !gs.whiteToMove {
		dir, home, enemy = 1, 1, White
	}
	ahead := r + dir
	if ahead < 0 || ahead >= BoardSize {
		return moves
	}
	if gs.board[ahead][c] == Empty {
		moves = gs.add(moves, r, c, ahead, c)
		if r == home && gs.board[r+2*dir][c] == Empty {
			moves = gs.add(moves, r, c, r+2*dir, c)
		}
	}
	if c-1 >= 0 {
		if gs.board[ahead][c-1].Color() == enemy {
			moves = gs.add(moves, r, c, ahead, c-1)
		}
	}
	if c+1 < len(gs.board) {
		if gs.board[ahead][c+1].Color() == enemy {
			moves = gs.add(moves, r, c, ahead, c+1)
		}
	}
	return moves
}

func (gs *GameState) rookMoves(r, c int, moves []Move) []Move {
	return gs.slide(r, c, rookDirections, moves)
}

func (gs *GameState) bishopMoves(r, c int, moves []Move) []Move {
	return gs.slide(r, c, bishopDirections, moves)
}

func (gs *GameState) queenMoves(r, c int, moves []Move) []Move {
	moves = gs.rookMoves(r, c, moves)
	return gs.bishopMoves(r, c, moves)
}

func (gs *GameState) knightMoves(r, c int, moves []Move) []Move {
	return gs.step(r, c, knightOffsets, moves)
}

// kingMoves covers the eight neighbours. No castling; the king may step
// onto an attacked square.
func (gs *GameState) kingMoves(r, c int, moves []Move) []Move {
	return gs.step(r, c, kingOffsets, moves)
}

// slide walks each direction up to seven squares, stopping before a
// friendly piece and on (capturing) an enemy piece.
func (gs *GameState) slide(r, c int, dirs []offset, moves []Move) []Move {
	enemy := gs.Turn().Opponent()
	for _, d := range dirs {
		for i := 1; i < BoardSize; i++ {
			er, ec := r+d.dr*i, c+d.dc*i
			if er < 0 || er >= BoardSize || ec < 0 || ec >= BoardSize {
				break
			}
			target := gs.board[er][ec]
			if target == Empty {
				moves = gs.add(moves, r, c, er, ec)
				continue
			}
			if target.Color() == enemy {
				moves = gs.add(moves, r, c, er, ec)
			}
			break
		}
	}
	return moves
}

// step tries each single offset; a target is reachable when empty or
// held by the enemy.
func (gs *GameState) step(r, c int, offsets []offset, moves []Move) []Move {
	enemy := gs.Turn().Opponent()
	for _, o := range offsets {
		er, ec := r+o.dr, c+o.dc
		if er < 0 || er >= BoardSize || ec < 0 || ec >= BoardSize {
			continue
		}
		target := gs.board[er][ec]
		if target == Empty || target.Color() == enemy {
			moves = gs.add(moves, r, c, er, ec)
		}
	}
	return moves
}
