// Package search implements the negamax search family: alpha-beta with optional PVS,
// null-move pruning and late-move reductions, quiescence at the horizon, transposition
// memoization, move ordering and selective extensions.
package search

import (
	"context"

	"github.com/nthorn/caissa/pkg/board"
)

// Strategy is a single composable search algorithm: given a position and a depth/window, it
// returns the position's score (from the side-to-move's perspective), the principal
// variation it found, and the number of nodes visited. Iterative deepening (see package
// searchctl) accepts any Strategy.
type Strategy interface {
	Search(ctx context.Context, b *board.Board, depth, alpha, beta int) (score int, pv []board.Move, nodes uint64)
}

func firstMove(pv []board.Move) board.Move {
	if len(pv) == 0 {
		return board.NoMove
	}
	return pv[0]
}

func prepend(m board.Move, rest []board.Move) []board.Move {
	return append([]board.Move{m}, rest...)
}

func countNonPawnNonKing(b *board.Board, color board.Color) int {
	n := 0
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			p := b.PieceAt(r, c)
			if p.Color == color && p.Kind != board.Pawn && p.Kind != board.King {
				n++
			}
		}
	}
	return n
}
