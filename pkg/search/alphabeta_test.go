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

func TestAlphaBetaStartingPositionIsBalanced(t *testing.T) {
	ctx := context.Background()
	b := board.Initial()
	require.Len(t, board.GenerateLegal(b), 20)

	a := search.AlphaBeta{}
	score, pv, _ := a.Search(ctx, b, 2, -eval.Inf, eval.Inf)
	assert.NotEmpty(t, pv)
	assert.InDelta(t, 0, score, 80, "symmetric starting position should search close to level")
}

func TestAlphaBetaFindsHangingPawn(t *testing.T) {
	ctx := context.Background()
	// White's e-pawn can take a hanging black pawn on d5 for free.
	b, err := board.FromKey("r1bqkbnr/ppp2ppp/2n5/3pp3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 0 1")
	require.NoError(t, err)

	a := search.AlphaBeta{}
	score, pv, _ := a.Search(ctx, b, 3, -eval.Inf, eval.Inf)
	require.NotEmpty(t, pv)
	assert.Greaterf(t, score, 0, "white should be better after winning the hanging d5 pawn, got score %d", score)
}

// TestAlphaBetaCaptureScenarioFindsHangingPawnAtDepth4 is spec.md section 8 scenario 4: the
// same hanging d5 pawn, at depth 4, with the exact expected root move.
func TestAlphaBetaCaptureScenarioFindsHangingPawnAtDepth4(t *testing.T) {
	ctx := context.Background()
	b, err := board.FromKey("r1bqkbnr/ppp2ppp/2n5/3pp3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 0 1")
	require.NoError(t, err)

	a := search.AlphaBeta{}
	_, pv, _ := a.Search(ctx, b, 4, -eval.Inf, eval.Inf)
	require.NotEmpty(t, pv)
	assert.Equal(t, "e4d5", pv[0].String())
}

// TestAlphaBetaMateInOneScenarioDoesNotHallucinateMate is spec.md section 8 scenario 3:
// Black, in check from White's queen on f7, has exactly one way out -- the king captures the
// queen. The engine must find it and must not report the resulting position as a mate for
// Black (Black is not mated here, merely down a rook exchange for the moment).
func TestAlphaBetaMateInOneScenarioDoesNotHallucinateMate(t *testing.T) {
	ctx := context.Background()
	b, err := board.FromKey("r1bqk2r/pppp1Qpp/2n2n2/2b5/2B1P3/8/PPPP1PPP/RNB1K1NR b KQkq - 0 1")
	require.NoError(t, err)
	require.True(t, b.InCheck(board.Black))

	a := search.AlphaBeta{}
	score, pv, _ := a.Search(ctx, b, 2, -eval.Inf, eval.Inf)
	require.NotEmpty(t, pv)
	assert.Equal(t, "e8f7", pv[0].String())
	assert.False(t, eval.IsMateScore(score), "Black is not mated after Kxf7, got score %d", score)
}

// TestAlphaBetaZeroDepthMatchesQuiescence is property P4: ab(b, 0, a, b) == quiescence(b, a, b).
func TestAlphaBetaZeroDepthMatchesQuiescence(t *testing.T) {
	ctx := context.Background()

	keys := []string{
		board.InitialKey,
		"r1bqkbnr/ppp2ppp/2n5/3pp3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}
	a := search.AlphaBeta{}
	for _, key := range keys {
		b, err := board.FromKey(key)
		require.NoError(t, err)

		want, wantNodes := search.Quiescence(b, -eval.Inf, eval.Inf)
		got, _, gotNodes := a.Search(ctx, b, 0, -eval.Inf, eval.Inf)

		assert.Equalf(t, want, got, "ab(depth=0) disagreed with quiescence for %q", key)
		assert.Equalf(t, wantNodes, gotNodes, "node counts disagreed for %q", key)
	}
}

// TestAlphaBetaMatedScoreBoundedByDistanceToMate is property P5.
func TestAlphaBetaMatedScoreBoundedByDistanceToMate(t *testing.T) {
	ctx := context.Background()
	// Fool's mate: White is mated, White to move with no legal moves.
	b, err := board.FromKey("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w - - 0 1")
	require.NoError(t, err)
	require.Empty(t, board.GenerateLegal(b))
	require.True(t, b.InCheck(board.White))

	a := search.AlphaBeta{}
	for d := 1; d <= 3; d++ {
		score, _, _ := a.Search(ctx, b, d, -eval.Inf, eval.Inf)
		assert.LessOrEqualf(t, score, -eval.Mate+d, "depth %d: score %d should be <= -Mate+%d", d, score, d)
	}
}

// TestAlphaBetaStalemateIsZero is property P6.
func TestAlphaBetaStalemateIsZero(t *testing.T) {
	ctx := context.Background()
	b, err := board.FromKey("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	require.NoError(t, err)
	require.Empty(t, board.GenerateLegal(b))
	require.False(t, b.InCheck(board.Black))

	a := search.AlphaBeta{}
	for d := 1; d <= 3; d++ {
		score, _, _ := a.Search(ctx, b, d, -eval.Inf, eval.Inf)
		assert.Equalf(t, 0, score, "depth %d: stalemate should score 0", d)
	}
}
