package search

import (
	"sync"

	"github.com/nthorn/caissa/pkg/board"
	"github.com/nthorn/caissa/pkg/eval"
)

// Bound records whether a stored value is exact or a search-window cutoff.
type Bound uint8

const (
	Exact Bound = iota
	Lower
	Upper
)

func (bd Bound) String() string {
	switch bd {
	case Exact:
		return "Exact"
	case Lower:
		return "Lower"
	case Upper:
		return "Upper"
	default:
		return "?"
	}
}

// Entry is one transposition table record.
type Entry struct {
	Value    int
	Depth    int
	Bound    Bound
	BestMove board.Move
}

// TTable is a position-keyed cache of search results. Replacement policy is always-replace
// on write at the same key, per spec.md section 4.5. The table need not be stable across
// invocations. Safe for concurrent use (guards against a future worker-pool extension, per
// spec.md section 5) though the reference design is single-threaded.
type TTable struct {
	mu sync.Mutex
	m  map[string]Entry
}

// NewTTable returns an empty transposition table.
func NewTTable() *TTable {
	return &TTable{m: map[string]Entry{}}
}

// Probe returns a usable score for (board, depth, alpha, beta), or eval.Unknown if the
// table cannot short-circuit this node. Per the reference design, a stored Lower or Upper
// bound returns the clamped alpha/beta value, not the raw stored value -- this keeps a
// cached cutoff from masquerading as a real evaluation at a PV node.
func (t *TTable) Probe(b *board.Board, depth, alpha, beta int) int {
	t.mu.Lock()
	e, ok := t.m[b.Key()]
	t.mu.Unlock()

	if !ok || e.Depth < depth {
		return eval.Unknown
	}
	switch e.Bound {
	case Exact:
		return e.Value
	case Lower:
		if e.Value >= beta {
			return beta
		}
	case Upper:
		if e.Value <= alpha {
			return alpha
		}
	}
	return eval.Unknown
}

// Store inserts or replaces the entry for board's position key.
func (t *TTable) Store(b *board.Board, depth, value int, bound Bound, best board.Move) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.m[b.Key()] = Entry{Value: value, Depth: depth, Bound: bound, BestMove: best}
}

// BestMove returns the stored best move for board's position, or the sentinel NoMove if
// absent.
func (t *TTable) BestMove(b *board.Board) board.Move {
	t.mu.Lock()
	e, ok := t.m[b.Key()]
	t.mu.Unlock()
	if !ok {
		return board.NoMove
	}
	return e.BestMove
}

// Size returns the number of entries currently stored.
func (t *TTable) Size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.m)
}
