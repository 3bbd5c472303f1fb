package board_test

import (
	"testing"

	"github.com/nthorn/caissa/pkg/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyRoundTrip(t *testing.T) {
	tests := []string{
		board.InitialKey,
		"r1bqk2r/pppp1Qpp/2n2n2/2b5/2B1P3/8/PPPP1PPP/RNB1K1NR b - - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}
	for _, key := range tests {
		b, err := board.FromKey(key)
		require.NoError(t, err)

		rt, err := board.FromKey(b.Key())
		require.NoError(t, err)
		assert.True(t, b.Equals(rt), "round trip mismatch for %q", key)
	}
}

func TestFromKeyTolerance(t *testing.T) {
	// Missing turn and trailing fields: defaults to White.
	b, err := board.FromKey("8/8/8/8/8/8/8/4K2k")
	require.NoError(t, err)
	assert.Equal(t, board.White, b.Turn())
}

func TestFromKeyMalformed(t *testing.T) {
	_, err := board.FromKey("not-a-key")
	assert.Error(t, err)
}

func TestPieceAtOutOfBounds(t *testing.T) {
	b := board.NewBoard()
	assert.True(t, b.PieceAt(-1, 0).IsEmpty())
	assert.True(t, b.PieceAt(8, 0).IsEmpty())

	b.SetPiece(-1, 0, board.Piece{Kind: board.Queen, Color: board.White}) // no-op
	assert.True(t, b.PieceAt(-1, 0).IsEmpty())
}

func TestMovePieceUnconditional(t *testing.T) {
	b := board.NewBoard()
	b.SetPiece(6, 4, board.Piece{Kind: board.Pawn, Color: board.White})
	b.MovePiece(6, 4, 0, 0) // not a legal pawn move, but MovePiece doesn't check

	assert.True(t, b.PieceAt(6, 4).IsEmpty())
	assert.Equal(t, board.Pawn, b.PieceAt(0, 0).Kind)
}

func TestKingPosition(t *testing.T) {
	b := board.Initial()
	k := b.KingPosition(board.White)
	require.GreaterOrEqual(t, k, 0)
	assert.Equal(t, board.King, b.PieceAt(k/8, k%8).Kind)

	empty := board.NewBoard()
	assert.Equal(t, -1, empty.KingPosition(board.White))
}

func TestSquareAttackedBySliderInclusive(t *testing.T) {
	b, err := board.FromKey("8/8/8/8/8/8/8/R6k w - - 0 1")
	require.NoError(t, err)

	// Rook on a1 attacks along the back rank up to and including the blocker at h1 (the king).
	assert.True(t, b.AttackedBy(7, 7, board.White))
}

func TestPawnAttacksAreDiagonalOnly(t *testing.T) {
	b, err := board.FromKey("8/8/8/8/8/8/4P3/8 w - - 0 1")
	require.NoError(t, err)

	// e2 pawn: the push square e3 is not "attacked".
	assert.False(t, b.AttackedBy(5, 4, board.White))
	// d3 and f3 are.
	assert.True(t, b.AttackedBy(5, 3, board.White))
	assert.True(t, b.AttackedBy(5, 5, board.White))
}

func TestIsCaptureAndIsCastling(t *testing.T) {
	b, err := board.FromKey("8/8/8/8/8/8/4p3/4P3 w - - 0 1")
	require.NoError(t, err)
	assert.True(t, b.IsCapture(7, 4, 6, 4))
	assert.False(t, b.IsCastling(7, 4, 6, 4))

	castle, err := board.FromKey("8/8/8/8/8/8/8/4K2R w - - 0 1")
	require.NoError(t, err)
	assert.True(t, castle.IsCastling(7, 4, 7, 6))
}

func TestIsMoveLegalRejectsPawnPush(t *testing.T) {
	// Per spec, IsMoveLegal checks the PSEUDO-ATTACK set, so a pawn push is never "legal"
	// by this predicate even though it's a legal pawn move by GenerateLegal.
	b, err := board.FromKey("8/8/8/8/8/8/4P3/4K2k w - - 0 1")
	require.NoError(t, err)
	assert.False(t, b.IsMoveLegal(6, 4, 5, 4))
}

func TestIsMoveLegalAcceptsCapture(t *testing.T) {
	b, err := board.FromKey("8/8/8/8/8/3p4/4P3/4K2k w - - 0 1")
	require.NoError(t, err)
	assert.True(t, b.IsMoveLegal(6, 4, 5, 3))
}

func TestIsMoveLegalRejectsSelfCheck(t *testing.T) {
	b, err := board.FromKey("8/8/8/8/8/8/8/K2r3k w - - 0 1")
	require.NoError(t, err)
	// King on a1 moving to b1 would still be on the back rank, attacked by the rook on d1.
	assert.False(t, b.IsMoveLegal(7, 0, 7, 1))
}
