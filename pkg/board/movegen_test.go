package board_test

import (
	"testing"

	"github.com/nthorn/caissa/pkg/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePseudoLegalInitialPosition(t *testing.T) {
	b := board.Initial()
	moves := board.GeneratePseudoLegal(b)
	assert.Len(t, moves, 20) // 16 pawn moves + 4 knight moves
}

func TestGenerateLegalIsSubsetOfPseudoLegal(t *testing.T) {
	positions := []string{
		board.InitialKey,
		"r1bqk2r/pppp1Qpp/2n2n2/2b5/2B1P3/8/PPPP1PPP/RNB1K1NR b - - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"k7/7R/6R1/8/8/8/8/7K w - - 0 1",
	}
	for _, key := range positions {
		b, err := board.FromKey(key)
		require.NoError(t, err)

		pseudo := board.GeneratePseudoLegal(b)
		legal := board.GenerateLegal(b)

		for _, m := range legal {
			found := false
			for _, p := range pseudo {
				if p.Equals(m) {
					found = true
					break
				}
			}
			assert.Truef(t, found, "legal move %v not in pseudo-legal set for %q", m, key)

			cp := b.Copy()
			cp.MovePiece(m.FromRow, m.FromCol, m.ToRow, m.ToCol)
			assert.Falsef(t, cp.InCheck(b.Turn()), "legal move %v leaves mover in check for %q", m, key)
		}
	}
}

func TestPawnDoublePushRequiresBothSquaresEmpty(t *testing.T) {
	b, err := board.FromKey("8/8/8/8/4p3/8/4P3/4K2k w - - 0 1")
	require.NoError(t, err)

	moves := board.GeneratePseudoLegal(b)
	for _, m := range moves {
		if m.FromRow == 6 && m.FromCol == 4 {
			assert.NotEqual(t, 4, m.ToRow, "double push should be blocked by the pawn on e4")
		}
	}
}

func TestPawnPromotionKeepsRankButNoPromotionKind(t *testing.T) {
	b, err := board.FromKey("8/4P3/8/8/8/8/8/4K2k w - - 0 1")
	require.NoError(t, err)

	moves := board.GeneratePseudoLegal(b)
	found := false
	for _, m := range moves {
		if m.FromRow == 1 && m.FromCol == 4 {
			found = true
			assert.Equal(t, board.Empty, m.Promotion)
		}
	}
	assert.True(t, found)

	cp := b.Copy()
	cp.MovePiece(1, 4, 0, 4)
	assert.Equal(t, board.Pawn, cp.PieceAt(0, 4).Kind)
}

func TestKnightMovesBlockedByOwnPiece(t *testing.T) {
	b, err := board.FromKey("8/8/8/8/8/3N4/8/4K2k w - - 0 1")
	require.NoError(t, err)
	moves := board.GeneratePseudoLegal(b)

	knightMoves := 0
	for _, m := range moves {
		if m.FromRow == 5 && m.FromCol == 3 {
			knightMoves++
		}
	}
	// d3 has eight L-squares on the board; e1 holds the knight's own king.
	assert.Equal(t, 7, knightMoves)
}
