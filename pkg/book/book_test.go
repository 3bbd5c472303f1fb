package book_test

import (
	"context"
	"strings"
	"testing"

	"github.com/nthorn/caissa/pkg/board"
	"github.com/nthorn/caissa/pkg/book"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickIsAlwaysAKnownCandidate(t *testing.T) {
	b := book.New(42)
	e2e4, err := board.ParseMove("e2e4")
	require.NoError(t, err)
	d2d4, err := board.ParseMove("d2d4")
	require.NoError(t, err)

	b.Add(board.InitialKey, e2e4, 60)
	b.Add(board.InitialKey, d2d4, 40)

	for i := 0; i < 50; i++ {
		m, ok := b.Pick(context.Background(), board.InitialKey)
		require.True(t, ok)
		assert.True(t, m.Equals(e2e4) || m.Equals(d2d4))
	}
}

func TestPickUnknownPositionReturnsFalse(t *testing.T) {
	b := book.New(1)
	_, ok := b.Pick(context.Background(), "unknown key")
	assert.False(t, ok)
}

func TestFindReturnsAllCandidates(t *testing.T) {
	b := book.New(1)
	e2e4, _ := board.ParseMove("e2e4")
	d2d4, _ := board.ParseMove("d2d4")
	b.Add(board.InitialKey, e2e4, 1)
	b.Add(board.InitialKey, d2d4, 1)

	moves, err := b.Find(context.Background(), board.InitialKey)
	require.NoError(t, err)
	assert.Len(t, moves, 2)
}

func TestLoadParsesWeightedEntries(t *testing.T) {
	data := "# comment\n" + board.InitialKey + "|e2e4 d2d4|60 40\n"
	b, err := book.Load(strings.NewReader(data), 7)
	require.NoError(t, err)

	moves, err := b.Find(context.Background(), board.InitialKey)
	require.NoError(t, err)
	assert.Len(t, moves, 2)
}

func TestLoadReportsMalformedLineButKeepsGoodOnes(t *testing.T) {
	data := board.InitialKey + "|e2e4|60\n" + "garbage-line-no-pipes\n"
	b, err := book.Load(strings.NewReader(data), 7)
	require.Error(t, err)
	require.NotNil(t, b)

	moves, ferr := b.Find(context.Background(), board.InitialKey)
	require.NoError(t, ferr)
	assert.Len(t, moves, 1)
}
