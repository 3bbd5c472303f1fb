package search

import (
	"context"

	"github.com/nthorn/caissa/pkg/board"
	"github.com/nthorn/caissa/pkg/eval"
)

// nullMoveReduction is R in the null-move-pruning formula depth-1-R.
const nullMoveReduction = 2

// AlphaBeta implements negamax search with fail-soft alpha-beta pruning (spec.md section
// 4.7), plus two optional per-node pruning heuristics layered on the same recursive walk:
// null-move pruning and late-move reduction. Both are config toggles rather than separate
// algorithms, matching the spec's framing of them as "variants" of the base routine.
//
// Pseudo-code (base, without NullMove/LMR):
//
//	function ab(board, depth, alpha, beta) is
//	    if depth = 0 then return quiescence(board, alpha, beta)
//	    if tt has a usable bound then return it
//	    moves := order(legal(board))
//	    if moves is empty then return mate-or-stalemate score
//	    best := -inf
//	    for each move in moves do
//	        v := -ab(child, depth-1, -beta, -alpha)
//	        best := max(best, v); alpha := max(alpha, best)
//	        if beta <= alpha then break
//	    store(board, depth, best, Exact, bestMove)
//	    return best
type AlphaBeta struct {
	TT       *TTable
	NullMove bool // enable null-move pruning
	LMR      bool // enable late-move reduction
}

func (a AlphaBeta) Search(ctx context.Context, b *board.Board, depth, alpha, beta int) (int, []board.Move, uint64) {
	return a.search(ctx, b, depth, alpha, beta)
}

func (a AlphaBeta) search(ctx context.Context, b *board.Board, depth, alpha, beta int) (int, []board.Move, uint64) {
	if depth == 0 {
		score, n := Quiescence(b, alpha, beta)
		return score, nil, n
	}

	if a.TT != nil {
		if v := a.TT.Probe(b, depth, alpha, beta); v != eval.Unknown {
			return v, nil, 0
		}
	}

	var nodes uint64 = 1
	turn := b.Turn()

	if a.NullMove && !b.InCheck(turn) && countNonPawnNonKing(b, turn) >= 2 && depth >= 3 {
		null := b.Copy()
		null.SwitchTurn()

		v, _, n := a.search(ctx, null, depth-1-nullMoveReduction, -beta, -beta+1)
		nodes += n
		if -v >= beta {
			return beta, nil, nodes
		}
	}

	moves := Order(b, board.GenerateLegal(b))
	if len(moves) == 0 {
		if b.InCheck(turn) {
			return -eval.Mate - depth, nil, nodes
		}
		return 0, nil, nodes
	}

	best := -eval.Inf
	bestMove := board.NoMove
	var pv []board.Move

	for idx, m := range moves {
		child := b.Copy()
		child.MovePiece(m.FromRow, m.FromCol, m.ToRow, m.ToCol)
		child.SwitchTurn()

		childDepth := depth - 1
		if ShouldExtend(b, m, depth) {
			childDepth++
		}

		v, childPV, n := a.searchChild(ctx, b, child, m, idx, depth, childDepth, alpha, beta)
		nodes += n

		if v > best {
			best = v
			bestMove = m
			pv = prepend(m, childPV)
		}
		if best > alpha {
			alpha = best
		}
		if beta <= alpha {
			break
		}
	}

	if a.TT != nil {
		a.TT.Store(b, depth, best, Exact, bestMove)
	}
	return best, pv, nodes
}

// searchChild searches one child, applying late-move reduction when configured and eligible.
func (a AlphaBeta) searchChild(ctx context.Context, parent, child *board.Board, m board.Move, idx, fullDepth, childDepth, alpha, beta int) (int, []board.Move, uint64) {
	if a.LMR && a.lmrEligible(parent, child, m, idx, fullDepth) {
		reduced := lmrDepth(fullDepth, idx)
		v, _, n := a.search(ctx, child, reduced, -beta, -alpha)
		v = -v
		if v > alpha && v < beta {
			v2, pv2, n2 := a.search(ctx, child, childDepth, -beta, -alpha)
			return -v2, pv2, n + n2
		}
		return v, nil, n
	}

	v, pv, n := a.search(ctx, child, childDepth, -beta, -alpha)
	return -v, pv, n
}

func (a AlphaBeta) lmrEligible(parent, child *board.Board, m board.Move, idx, depth int) bool {
	if idx < 2 || depth < 3 {
		return false
	}
	if parent.IsCapture(m.FromRow, m.FromCol, m.ToRow, m.ToCol) {
		return false
	}
	mover := parent.PieceAt(m.FromRow, m.FromCol)
	if child.InCheck(mover.Color.Opponent()) {
		return false
	}
	if moveScore(parent, m, parent.InCheck(parent.Turn())) > 0 {
		return false
	}
	return true
}

func lmrDepth(depth, idx int) int {
	reduced := depth - 1 - (depth/4 + idx/5)
	if reduced < 1 {
		return 1
	}
	return reduced
}
