package search

import (
	"context"

	"github.com/nthorn/caissa/pkg/board"
	"github.com/nthorn/caissa/pkg/eval"
)

// PVS implements principal variation search: the first move at a node is searched with the
// full alpha-beta window, and every later move is first probed with a null window
// [-alpha-1, -alpha] on the assumption that the first move's ordering already found the best
// line. A move that beats alpha inside that null window is re-searched with the full window
// to get its real score. Per spec.md section 4.7, this is a variant of the same recursive
// walk as AlphaBeta, sharing its TT, quiescence, ordering, extension and null-move-pruning
// machinery.
type PVS struct {
	TT       *TTable
	NullMove bool
	LMR      bool
}

func (p PVS) Search(ctx context.Context, b *board.Board, depth, alpha, beta int) (int, []board.Move, uint64) {
	return p.search(ctx, b, depth, alpha, beta, true)
}

// search is the shared recursive walk. pvNode is true at the root and along the first-move
// chain (and on any full-window re-search that follows a raised null-window probe); it is
// false at every null-window probe node. Per spec.md section 4.7 ("The TT probe is skipped
// when the caller marks the node as a PV node"), a PV node never consults the transposition
// table -- a cached bound from a narrower, non-PV search could otherwise short-circuit the
// very search meant to establish the real principal variation, mirroring the original
// engine's isPVNode-gated probe.
func (p PVS) search(ctx context.Context, b *board.Board, depth, alpha, beta int, pvNode bool) (int, []board.Move, uint64) {
	if depth == 0 {
		score, n := Quiescence(b, alpha, beta)
		return score, nil, n
	}

	if p.TT != nil && !pvNode {
		if v := p.TT.Probe(b, depth, alpha, beta); v != eval.Unknown {
			return v, nil, 0
		}
	}

	var nodes uint64 = 1
	turn := b.Turn()

	if p.NullMove && !b.InCheck(turn) && countNonPawnNonKing(b, turn) >= 2 && depth >= 3 {
		null := b.Copy()
		null.SwitchTurn()

		v, _, n := p.search(ctx, null, depth-1-nullMoveReduction, -beta, -beta+1, false)
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

		var v int
		var childPV []board.Move
		var n uint64

		if idx == 0 {
			v, childPV, n = p.searchFull(ctx, b, child, m, idx, depth, childDepth, alpha, beta, pvNode)
		} else {
			v, childPV, n = p.searchNullWindow(ctx, b, child, m, idx, depth, childDepth, alpha, beta)
		}
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

	if p.TT != nil {
		p.TT.Store(b, depth, best, Exact, bestMove)
	}
	return best, pv, nodes
}

func (p PVS) searchFull(ctx context.Context, parent, child *board.Board, m board.Move, idx, fullDepth, childDepth, alpha, beta int, pvNode bool) (int, []board.Move, uint64) {
	if p.LMR && p.lmrEligible(parent, child, m, idx, fullDepth) {
		reduced := lmrDepth(fullDepth, idx)
		v, _, n := p.search(ctx, child, reduced, -beta, -alpha, false)
		v = -v
		if v > alpha && v < beta {
			v2, pv2, n2 := p.search(ctx, child, childDepth, -beta, -alpha, pvNode)
			return -v2, pv2, n + n2
		}
		return v, nil, n
	}
	v, pv, n := p.search(ctx, child, childDepth, -beta, -alpha, pvNode)
	return -v, pv, n
}

// searchNullWindow probes with [-alpha-1, -alpha] -- never a PV node, by definition a window
// of width one cannot be the principal variation's window -- and re-searches with the full
// window (and pvNode=true) only when the probe reports a score that could raise alpha.
func (p PVS) searchNullWindow(ctx context.Context, parent, child *board.Board, m board.Move, idx, fullDepth, childDepth, alpha, beta int) (int, []board.Move, uint64) {
	searchDepth := childDepth
	reduced := p.LMR && p.lmrEligible(parent, child, m, idx, fullDepth)
	if reduced {
		searchDepth = lmrDepth(fullDepth, idx)
	}

	v, _, n := p.search(ctx, child, searchDepth, -alpha-1, -alpha, false)
	v = -v
	if v <= alpha || v >= beta {
		return v, nil, n
	}

	// Fails high inside the null window (or the reduced depth undersold it): re-search at
	// full depth and full window to get the real score and PV.
	v2, pv2, n2 := p.search(ctx, child, childDepth, -beta, -alpha, true)
	return -v2, pv2, n + n2
}

func (p PVS) lmrEligible(parent, child *board.Board, m board.Move, idx, depth int) bool {
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
