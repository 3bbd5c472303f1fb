// Package searchctl wraps pkg/search's Strategy implementations with iterative deepening: a
// depth loop under a wall-clock deadline, aspiration windows from depth 2 on, and a forced-
// mate early exit. It mirrors the position-agnostic search family with session-level
// concerns -- time budgets, cancellation, and publishing one PV per completed depth.
package searchctl

import (
	"context"
	"fmt"
	"strings"

	"github.com/nthorn/caissa/pkg/board"
	"github.com/nthorn/caissa/pkg/search"
	"github.com/seekerror/stdlib/pkg/lang"
)

// Options hold dynamic search options the caller may set on a particular search.
type Options struct {
	// DepthLimit, if set, limits the search to the given ply depth. Zero means no limit.
	DepthLimit lang.Optional[uint]
	// TimeControl, if set, limits the search to the given time parameters.
	TimeControl lang.Optional[TimeControl]
	// Aggressive scales the derived time budget up; see DeriveBudget.
	Aggressive bool
}

func (o Options) String() string {
	var ret []string
	if v, ok := o.DepthLimit.V(); ok {
		ret = append(ret, fmt.Sprintf("depth=%v", v))
	}
	if v, ok := o.TimeControl.V(); ok {
		ret = append(ret, fmt.Sprintf("time=%v", v))
	}
	return fmt.Sprintf("[%v]", strings.Join(ret, ", "))
}

// Launcher manages iterative-deepening searches over a Strategy.
type Launcher interface {
	// Launch starts a new search from the given position using strategy and tt. It expects
	// an exclusive (forked) board and returns a handle plus a channel of increasingly deep
	// PVs. The channel closes when the search is exhausted. The search can be halted at any
	// time via the returned Handle.
	Launch(ctx context.Context, strategy search.Strategy, b *board.Board, tt *search.TTable, opt Options) (Handle, <-chan search.PV)
}

// Handle lets the caller manage a launched search.
type Handle interface {
	// Halt stops the search, if running, and returns the last published PV. Idempotent.
	Halt() search.PV
}
