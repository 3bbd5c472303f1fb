package search

import (
	"github.com/nthorn/caissa/pkg/board"
	"github.com/nthorn/caissa/pkg/eval"
)

// Quiescence extends search at the horizon with captures only, to avoid misjudging a
// position in the middle of a tactical exchange. Fail-hard: returned scores are clamped to
// [alpha, beta]. Per spec.md section 4.6, it terminates because captures strictly reduce
// material -- recursion depth is bounded by the number of pieces on the board.
func Quiescence(b *board.Board, alpha, beta int) (int, uint64) {
	var nodes uint64

	standPat := eval.Evaluate(b)
	if standPat >= beta {
		return beta, nodes
	}
	if standPat > alpha {
		alpha = standPat
	}

	for _, m := range captureMoves(b) {
		child := b.Copy()
		child.MovePiece(m.FromRow, m.FromCol, m.ToRow, m.ToCol)
		child.SwitchTurn()

		score, n := Quiescence(child, -beta, -alpha)
		score = -score
		nodes += n + 1

		if score >= beta {
			return beta, nodes
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha, nodes
}

// captureMoves returns the legal moves whose destination is occupied by an enemy piece. A
// correct re-architecture generates only enemy-targeted moves from the legal set, rather
// than the source's O(64^2)-per-node full legality-plus-capture-predicate pass.
func captureMoves(b *board.Board) []board.Move {
	var captures []board.Move
	for _, m := range board.GenerateLegal(b) {
		if b.IsCapture(m.FromRow, m.FromCol, m.ToRow, m.ToCol) {
			captures = append(captures, m)
		}
	}
	return captures
}
