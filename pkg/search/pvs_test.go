package search_test

import (
	"context"
	"testing"

	"github.com/nthorn/caissa/pkg/board"
	"github.com/nthorn/caissa/pkg/eval"
	"github.com/nthorn/caissa/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPVSMatchesAlphaBeta is property P7: PVS's null-window/full-window plumbing must never
// change the exact score a full-width search would find -- only the node count may differ.
func TestPVSMatchesAlphaBeta(t *testing.T) {
	keys := []string{
		board.InitialKey,
		"r1bqkbnr/ppp2ppp/2n5/3pp3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 0 1",
		"r1bqk2r/pppp1Qpp/2n2n2/2b5/2B1P3/8/PPPP1PPP/RNB1K1NR b KQkq - 0 1",
	}
	ctx := context.Background()
	a := search.AlphaBeta{}
	p := search.PVS{}

	for _, key := range keys {
		b, err := board.FromKey(key)
		require.NoError(t, err)

		for depth := 1; depth <= 3; depth++ {
			want, _, _ := a.Search(ctx, b, depth, -eval.Inf, eval.Inf)
			got, _, _ := p.Search(ctx, b, depth, -eval.Inf, eval.Inf)
			assert.Equalf(t, want, got, "depth %d, position %q: PVS disagreed with AlphaBeta", depth, key)
		}
	}
}

func TestPVSMatedScoreBoundedByDistanceToMate(t *testing.T) {
	ctx := context.Background()
	b, err := board.FromKey("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w - - 0 1")
	require.NoError(t, err)
	require.Empty(t, board.GenerateLegal(b))

	p := search.PVS{}
	for d := 1; d <= 3; d++ {
		score, _, _ := p.Search(ctx, b, d, -eval.Inf, eval.Inf)
		assert.LessOrEqualf(t, score, -eval.Mate+d, "depth %d: score %d should be <= -Mate+%d", d, score, d)
	}
}

func TestPVSStalemateIsZero(t *testing.T) {
	ctx := context.Background()
	b, err := board.FromKey("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	require.NoError(t, err)
	require.Empty(t, board.GenerateLegal(b))

	p := search.PVS{}
	for d := 1; d <= 3; d++ {
		score, _, _ := p.Search(ctx, b, d, -eval.Inf, eval.Inf)
		assert.Equalf(t, 0, score, "depth %d: stalemate should score 0", d)
	}
}

// TestPVSWithTranspositionTableMatchesAlphaBeta exercises the PVS TT wiring (including the
// PV-node probe skip) against the same fixtures, to catch a PV node silently accepting a
// stale cutoff from a narrower non-PV search sharing the table.
func TestPVSWithTranspositionTableMatchesAlphaBeta(t *testing.T) {
	ctx := context.Background()
	b, err := board.FromKey("r1bqkbnr/ppp2ppp/2n5/3pp3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 0 1")
	require.NoError(t, err)

	a := search.AlphaBeta{}
	want, _, _ := a.Search(ctx, b, 4, -eval.Inf, eval.Inf)

	p := search.PVS{TT: search.NewTTable()}
	got, _, _ := p.Search(ctx, b, 4, -eval.Inf, eval.Inf)

	assert.Equal(t, want, got)
}
