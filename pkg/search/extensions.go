package search

import (
	"github.com/nthorn/caissa/pkg/board"
	"github.com/nthorn/caissa/pkg/eval"
)

// ShouldExtend reports whether the child node reached by playing move at depth should get
// an extra ply of search depth. False whenever depth <= 1. Otherwise true iff the move
// delivers check, is a capture, promotes a pawn, or pushes a pawn that was passed on its
// starting square. Per spec.md section 4.8, the caller is responsible for incrementing the
// child's depth when this returns true.
func ShouldExtend(b *board.Board, m board.Move, depth int) bool {
	if depth <= 1 {
		return false
	}

	mover := b.PieceAt(m.FromRow, m.FromCol)

	if b.IsCapture(m.FromRow, m.FromCol, m.ToRow, m.ToCol) {
		return true
	}
	if mover.Kind == board.Pawn && isLastRank(m.ToRow, mover.Color) {
		return true
	}
	if mover.Kind == board.Pawn && eval.IsPassedPawn(b, m.FromRow, m.FromCol, mover.Color) {
		return true
	}

	child := b.Copy()
	child.MovePiece(m.FromRow, m.FromCol, m.ToRow, m.ToCol)
	if child.InCheck(mover.Color.Opponent()) {
		return true
	}
	return false
}
