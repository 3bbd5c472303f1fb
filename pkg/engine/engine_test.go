package engine_test

import (
	"context"
	"sync"
	"testing"

	"github.com/nthorn/caissa/pkg/board"
	"github.com/nthorn/caissa/pkg/book"
	"github.com/nthorn/caissa/pkg/engine"
	"github.com/nthorn/caissa/pkg/search"
	"github.com/nthorn/caissa/pkg/search/searchctl"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingObserver is a test-only engine.Observer that records every published PV.
type recordingObserver struct {
	mu  sync.Mutex
	got []search.PV
}

func (o *recordingObserver) Publish(key string, pv search.PV) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.got = append(o.got, pv)
}

func (o *recordingObserver) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.got)
}

func TestResetAndMove(t *testing.T) {
	ctx := context.Background()
	e := engine.New(ctx, "caissa", "test")

	require.NoError(t, e.Move(ctx, "e2e4"))
	assert.Equal(t, board.Black, e.Board().Turn())

	require.Error(t, e.Move(ctx, "e2e4")) // pawn no longer on e2
}

func TestFindBestMoveUsesBookFirst(t *testing.T) {
	ctx := context.Background()

	b := book.New(1)
	e2e4, err := board.ParseMove("e2e4")
	require.NoError(t, err)
	b.Add(board.InitialKey, e2e4, 1)

	e := engine.New(ctx, "caissa", "test", engine.WithBook(b))

	m, pv, err := e.FindBestMove(ctx, searchctl.Options{DepthLimit: lang.Some(uint(1))})
	require.NoError(t, err)
	assert.True(t, m.Equals(e2e4))
	assert.True(t, pv.BestMove().Equals(e2e4))
}

func TestFindBestMoveFallsBackToSearch(t *testing.T) {
	ctx := context.Background()
	e := engine.New(ctx, "caissa", "test", engine.WithBook(book.New(1)))

	m, _, err := e.FindBestMove(ctx, searchctl.Options{DepthLimit: lang.Some(uint(2))})
	require.NoError(t, err)
	assert.False(t, m.IsNone())
}

func TestAnalyzeTeesPVsToObserver(t *testing.T) {
	ctx := context.Background()

	obs := &recordingObserver{}
	e := engine.New(ctx, "caissa", "test", engine.WithBook(book.New(1)), engine.WithObserver(obs))

	out, err := e.Analyze(ctx, searchctl.Options{DepthLimit: lang.Some(uint(3))})
	require.NoError(t, err)

	var n int
	for range out {
		n++
	}

	require.NotZero(t, n, "search produced no PVs")
	assert.Equal(t, n, obs.count(), "observer should see exactly the PVs delivered on the returned channel")
}
