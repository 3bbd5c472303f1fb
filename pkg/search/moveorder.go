package search

import (
	"sort"

	"github.com/nthorn/caissa/pkg/board"
)

// Order sorts moves descending by a coarse MVV-LVA-style heuristic score, per spec.md
// section 4.4. It returns a sorted copy and leaves the input slice unchanged.
func Order(b *board.Board, moves []board.Move) []board.Move {
	ordered := append([]board.Move(nil), moves...)
	inCheck := b.InCheck(b.Turn())

	scores := make(map[board.Move]int, len(ordered))
	for _, m := range ordered {
		scores[m] = moveScore(b, m, inCheck)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return scores[ordered[i]] > scores[ordered[j]]
	})
	return ordered
}

func moveScore(b *board.Board, m board.Move, inCheck bool) int {
	score := 0

	attacker := b.PieceAt(m.FromRow, m.FromCol)
	victim := b.PieceAt(m.ToRow, m.ToCol)
	if !victim.IsEmpty() {
		score += victim.Kind.Value() - attacker.Kind.Value()/10
	}
	if inCheck {
		score += 100
	}
	if attacker.Kind == board.Pawn && isLastRank(m.ToRow, attacker.Color) {
		score += 900
	}
	return score
}

func isLastRank(row int, color board.Color) bool {
	if color == board.White {
		return row == 0
	}
	return row == 7
}
