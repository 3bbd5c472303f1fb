package endgame

import (
	"math"

	"github.com/nthorn/caissa/pkg/board"
)

// BestMove heuristically picks a move for an endgame position, without running the full
// search: promote a pawn if one can reach the last rank this move; otherwise the heuristic is
// chosen by the most valuable non-king, non-pawn piece kind on the board, of either color:
// the queen move that maximizes reach, the rook move to the most open file, a bishop move
// along a long diagonal, a knight move toward a central outpost, or, with only kings and
// pawns left, the king move closest to the centre. Rook moves are scored by file openness
// only; whether the rook ends up behind a passed pawn is not considered. Falls back to the
// first legal move when no preferred move is found (for example when the dominant piece
// belongs to the side not to move). Returns board.NoMove if b has no legal moves.
func BestMove(b *board.Board) board.Move {
	moves := board.GenerateLegal(b)
	if len(moves) == 0 {
		return board.NoMove
	}

	if m, ok := promotionMove(b, moves); ok {
		return m
	}

	switch dominantKind(b) {
	case board.Rook:
		if m, ok := bestRookMove(b, moves); ok {
			return m
		}
	case board.Bishop:
		if m, ok := bestBishopMove(b, moves); ok {
			return m
		}
	case board.Knight:
		if m, ok := bestKnightMove(b, moves); ok {
			return m
		}
	case board.Queen:
		if m, ok := bestQueenMove(b, moves); ok {
			return m
		}
	default:
		if m, ok := bestKingMove(b, moves); ok {
			return m
		}
	}
	return moves[0]
}

func promotionMove(b *board.Board, moves []board.Move) (board.Move, bool) {
	for _, m := range moves {
		p := b.PieceAt(m.FromRow, m.FromCol)
		if p.Kind != board.Pawn {
			continue
		}
		if (p.Color == board.White && m.ToRow == 0) || (p.Color == board.Black && m.ToRow == 7) {
			return m, true
		}
	}
	return board.NoMove, false
}

// dominantKind is the most valuable non-king, non-pawn piece kind present on the board,
// used to pick which heuristic applies.
func dominantKind(b *board.Board) board.Kind {
	best := board.Kind(0)
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			k := b.PieceAt(r, c).Kind
			switch k {
			case board.Queen:
				return board.Queen
			case board.Rook:
				if best != board.Queen {
					best = board.Rook
				}
			case board.Bishop:
				if best != board.Queen && best != board.Rook {
					best = board.Bishop
				}
			case board.Knight:
				if best == board.Kind(0) {
					best = board.Knight
				}
			}
		}
	}
	return best
}

func bestKingMove(b *board.Board, moves []board.Move) (board.Move, bool) {
	var best board.Move
	bestScore := math.Inf(1)
	found := false
	for _, m := range moves {
		p := b.PieceAt(m.FromRow, m.FromCol)
		if p.Kind != board.King {
			continue
		}
		dist := math.Abs(float64(m.ToRow)-3.5) + math.Abs(float64(m.ToCol)-3.5)
		if dist < bestScore {
			bestScore = dist
			best = m
			found = true
		}
	}
	return best, found
}

func bestRookMove(b *board.Board, moves []board.Move) (board.Move, bool) {
	var best board.Move
	bestScore := -1
	found := false
	for _, m := range moves {
		p := b.PieceAt(m.FromRow, m.FromCol)
		if p.Kind != board.Rook {
			continue
		}
		score := openFileScore(b, m.ToCol, p.Color)
		if score > bestScore {
			bestScore = score
			best = m
			found = true
		}
	}
	return best, found
}

func openFileScore(b *board.Board, col int, mover board.Color) int {
	score := 2
	for r := 0; r < 8; r++ {
		p := b.PieceAt(r, col)
		if p.Kind == board.Pawn {
			if p.Color == mover {
				score -= 2 // own pawn blocks the file
			} else {
				score -= 1 // enemy pawn half-blocks it
			}
		}
	}
	return score
}

func bestBishopMove(b *board.Board, moves []board.Move) (board.Move, bool) {
	var best board.Move
	bestScore := -1
	found := false
	for _, m := range moves {
		p := b.PieceAt(m.FromRow, m.FromCol)
		if p.Kind != board.Bishop {
			continue
		}
		score := 0
		if m.ToRow == m.ToCol || m.ToRow+m.ToCol == 7 {
			score = 8 - abs(m.ToRow-m.ToCol)
		}
		if score > bestScore {
			bestScore = score
			best = m
			found = true
		}
	}
	return best, found
}

func bestKnightMove(b *board.Board, moves []board.Move) (board.Move, bool) {
	var best board.Move
	bestScore := -1
	found := false
	for _, m := range moves {
		p := b.PieceAt(m.FromRow, m.FromCol)
		if p.Kind != board.Knight {
			continue
		}
		score := 7 - (abs(m.ToRow-3) + abs(m.ToCol-3))
		if score > bestScore {
			bestScore = score
			best = m
			found = true
		}
	}
	return best, found
}

func bestQueenMove(b *board.Board, moves []board.Move) (board.Move, bool) {
	var best board.Move
	bestScore := -1
	found := false
	for _, m := range moves {
		p := b.PieceAt(m.FromRow, m.FromCol)
		if p.Kind != board.Queen {
			continue
		}
		score := centralReach(m.ToRow, m.ToCol)
		if score > bestScore {
			bestScore = score
			best = m
			found = true
		}
	}
	return best, found
}

// centralReach approximates a queen's mobility from (r,c): a central square sees further
// along all four directions and both diagonals than an edge or corner square.
func centralReach(r, c int) int {
	return 14 - (abs(2*r-7) + abs(2*c-7))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
