package searchctl

import (
	"context"
	"sync"
	"time"

	"github.com/nthorn/caissa/pkg/board"
	"github.com/nthorn/caissa/pkg/eval"
	"github.com/nthorn/caissa/pkg/search"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

// Iterative is a Launcher that deepens a Strategy one ply at a time: depth 1 searches the
// full (-Inf, Inf) window, every later depth searches an aspiration window (pkg/search's
// Aspirate) centered on the previous depth's score. Per spec.md section 4.10, the loop can
// only be cancelled between depths, never mid-depth -- a started depth always finishes.
type Iterative struct {
	Strategy search.Strategy
}

func (i *Iterative) Launch(ctx context.Context, strategy search.Strategy, b *board.Board, tt *search.TTable, opt Options) (Handle, <-chan search.PV) {
	out := make(chan search.PV, 1)
	h := &handle{
		init: iox.NewAsyncCloser(),
		quit: iox.NewAsyncCloser(),
	}
	go h.process(ctx, strategy, b, tt, opt, out)
	return h, out
}

type handle struct {
	init, quit iox.AsyncCloser

	pv search.PV
	mu sync.Mutex
}

func (h *handle) process(ctx context.Context, strategy search.Strategy, b *board.Board, tt *search.TTable, opt Options, out chan search.PV) {
	defer h.init.Close()
	defer close(out)

	soft, useSoft := enforceTimeControl(ctx, h, opt, b.Turn())

	wctx, cancel := contextx.WithQuitCancel(ctx, h.quit.Closed())
	defer cancel()

	depth := 1
	prevScore := 0
	for !h.quit.IsClosed() {
		start := time.Now()

		var score int
		var moves []board.Move
		var nodes uint64
		if depth == 1 {
			score, moves, nodes = strategy.Search(wctx, b, depth, -eval.Inf, eval.Inf)
		} else {
			score, moves, nodes = search.Aspirate(wctx, strategy, b, depth, prevScore)
		}

		if contextx.IsCancelled(wctx) {
			return
		}

		if len(moves) == 0 {
			// A Strategy returns no PV whenever the root itself resolves via a TT cutoff
			// (an unchanged position searched again, or a repetition within the game --
			// e.tt is only cleared on Reset). Per spec.md section 4.10, recover the move
			// from the table first, falling back to a one-ply manual search over the legal
			// root moves when the table has nothing either.
			if bm := rootMoveFallback(b, tt); !bm.IsNone() {
				moves = []board.Move{bm}
			}
		}

		pv := search.PV{
			Depth: depth,
			Score: score,
			Moves: moves,
			Nodes: nodes,
			Time:  time.Since(start),
		}
		if tt != nil {
			pv.Hash = tt.Size()
		}
		prevScore = score

		logw.Debugf(ctx, "Searched %v: %v", b.Key(), pv)

		h.mu.Lock()
		h.pv = pv
		h.mu.Unlock()

		select {
		case <-out:
		default:
		}
		out <- pv

		h.init.Close()
		if limit, ok := opt.DepthLimit.V(); ok && uint(depth) == limit {
			return // halt: reached max depth
		}
		if eval.IsMateScore(score) {
			return // halt: forced mate found at full width. Deeper search can't improve it.
		}
		if useSoft && soft < time.Since(start) {
			return // halt: exceeded soft time limit. Do not start a new depth.
		}
		depth++
	}
}

func (h *handle) Halt() search.PV {
	<-h.init.Closed()
	h.quit.Close()

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pv
}

// rootMoveFallback recovers a root move when a Strategy returns an empty PV: first the
// transposition table's stored best move for the position, then (if the table has nothing,
// e.g. Hash is disabled) a one-ply manual search over the legal root moves picking the
// maximum-scoring child, per spec.md section 4.10 point 3. Returns board.NoMove only when
// the position genuinely has no legal moves (checkmate or stalemate at the root).
func rootMoveFallback(b *board.Board, tt *search.TTable) board.Move {
	if tt != nil {
		if bm := tt.BestMove(b); !bm.IsNone() {
			return bm
		}
	}

	best := board.NoMove
	bestScore := -eval.Inf
	for _, m := range board.GenerateLegal(b) {
		child := b.Copy()
		child.MovePiece(m.FromRow, m.FromCol, m.ToRow, m.ToCol)
		child.SwitchTurn()

		score := -eval.Evaluate(child)
		if score > bestScore {
			bestScore = score
			best = m
		}
	}
	return best
}

// enforceTimeControl schedules a hard halt and returns the soft limit, if a TimeControl was
// supplied.
func enforceTimeControl(ctx context.Context, h Handle, opt Options, turn board.Color) (time.Duration, bool) {
	tc, ok := opt.TimeControl.V()
	if !ok {
		return 0, false
	}

	soft := DeriveBudget(tc, turn, opt.Aggressive)
	hard := 3 * soft
	time.AfterFunc(hard, func() {
		h.Halt()
	})
	return soft, true
}
