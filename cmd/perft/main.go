// perft is a movegen debugging tool that counts legal-move leaf nodes at each depth, the
// standard cross-check for a move generator. See: https://www.chessprogramming.org/Perft_Results.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/nthorn/caissa/pkg/board"
	"github.com/seekerror/logw"
)

var (
	depth    = flag.Int("depth", 4, "Search depth")
	position = flag.String("fen", "", "Start position (default to standard)")
	divide   = flag.Bool("divide", false, "Divide counts by initial move")
)

func main() {
	ctx := context.Background()
	flag.Parse()

	key := *position
	if key == "" {
		key = board.InitialKey
	}

	b, err := board.FromKey(key)
	if err != nil {
		logw.Exitf(ctx, "Invalid position %q: %v", key, err)
	}

	for i := 1; i <= *depth; i++ {
		start := time.Now()
		nodes := perft(b, i, *divide && i == *depth)
		duration := time.Since(start)

		println(fmt.Sprintf("perft,%v,%v,%v,%v", key, i, nodes, duration.Microseconds()))
	}
}

// perft counts the leaf nodes of the legal-move tree rooted at b, to the given depth. Unlike
// the search core's AlphaBeta, it walks EVERY legal move at every depth -- no pruning -- so a
// mismatch against a published perft count pinpoints a move generation bug rather than a
// search one.
func perft(b *board.Board, depth int, d bool) int64 {
	if depth == 0 {
		return 1
	}

	var nodes int64
	for _, m := range board.GenerateLegal(b) {
		child := b.Copy()
		child.MovePiece(m.FromRow, m.FromCol, m.ToRow, m.ToCol)
		child.SwitchTurn()

		count := perft(child, depth-1, false)
		if d {
			println(fmt.Sprintf("%v: %v", m, count))
		}
		nodes += count
	}
	return nodes
}
