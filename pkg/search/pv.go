package search

import (
	"fmt"
	"strings"
	"time"

	"github.com/nthorn/caissa/pkg/board"
)

// PV is one completed iterative-deepening iteration's result: the depth searched, the score
// from the side-to-move's perspective, the principal variation found, node count and
// wall-clock time spent. Iterative deepening (package searchctl) publishes one of these per
// depth.
type PV struct {
	Depth int
	Score int
	Moves []board.Move
	Nodes uint64
	Time  time.Duration
	Hash  int // transposition table occupancy at publish time, if tracked
}

// BestMove returns the PV's first move, or the sentinel NoMove if the PV is empty.
func (p PV) BestMove() board.Move {
	return firstMove(p.Moves)
}

func (p PV) String() string {
	var sb strings.Builder
	for i, m := range p.Moves {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(m.String())
	}
	return fmt.Sprintf("depth=%d score=%d nodes=%d time=%v pv=[%s]", p.Depth, p.Score, p.Nodes, p.Time, sb.String())
}
