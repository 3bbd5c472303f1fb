package search

import (
	"context"

	"github.com/nthorn/caissa/pkg/board"
	"github.com/nthorn/caissa/pkg/eval"
)

// initialAspirationWindow is W in spec.md section 4.9.
const initialAspirationWindow = 50

// maxAspirationRetries caps how many re-searches follow the first narrow-window attempt.
const maxAspirationRetries = 2

// Aspirate searches depth around prevScore with a narrow window. On a fail-low (score <=
// alpha) it re-searches immediately with alpha opened to -Inf and beta clamped to the
// failing score; symmetrically on a fail-high, beta opens to +Inf and alpha clamps to the
// failing score. The window width is doubled on each retry, but the retry windows are built
// from the failing score and an infinite bound, so the doubled width is not read again and
// is not returned to the caller. At most two re-searches are performed; after that the result in hand is
// returned regardless of whether it still lies outside the last window. Meant to be called
// once per iterative-deepening depth once a previous iteration's score is available; the
// caller should fall back to a full-window Strategy.Search call directly at depth 1, where
// there is no prevScore yet.
func Aspirate(ctx context.Context, strategy Strategy, b *board.Board, depth, prevScore int) (int, []board.Move, uint64) {
	window := initialAspirationWindow
	alpha := prevScore - window
	beta := prevScore + window

	var total uint64
	var score int
	var pv []board.Move

	for attempt := 0; ; attempt++ {
		var n uint64
		score, pv, n = strategy.Search(ctx, b, depth, alpha, beta)
		total += n

		if attempt >= maxAspirationRetries {
			return score, pv, total
		}

		switch {
		case score <= alpha:
			window *= 2
			alpha = -eval.Inf
			beta = score
		case score >= beta:
			window *= 2
			alpha = score
			beta = eval.Inf
		default:
			return score, pv, total
		}
	}
}
