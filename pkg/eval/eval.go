package eval

import (
	"math"

	"github.com/nthorn/caissa/pkg/board"
)

// Evaluate returns a static centipawn score for the position, from the side-to-move's
// perspective: terminal detection, material, piece-square bonuses, mobility, pawn
// structure and king safety are summed White-minus-Black, then negated when Black is to
// move.
func Evaluate(b *board.Board) int {
	if len(board.GenerateLegal(b)) == 0 {
		if b.InCheck(b.Turn()) {
			return -Mate
		}
		return 0
	}

	total := material(b) + pieceSquare(b) + mobility(b) + pawnStructure(b) + kingSafety(b)
	if b.Turn() == board.Black {
		total = -total
	}
	return total
}

func material(b *board.Board) int {
	total := 0
	forEachPiece(b, func(r, c int, p board.Piece) {
		v := p.Kind.Value()
		if p.Color == board.White {
			total += v
		} else {
			total -= v
		}
	})
	return total
}

func forEachPiece(b *board.Board, fn func(r, c int, p board.Piece)) {
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			p := b.PieceAt(r, c)
			if !p.IsEmpty() {
				fn(r, c, p)
			}
		}
	}
}

func pieceSquare(b *board.Board) int {
	endgame := isEndgameLocal(b)
	total := 0
	forEachPiece(b, func(r, c int, p board.Piece) {
		bonus := 0
		switch p.Kind {
		case board.Pawn:
			rankAdvance := (7 - r) * 5
			if p.Color == board.Black {
				rankAdvance = r * 5
			}
			central := int((4 - math.Abs(float64(c)-3.5)) * 2)
			bonus = rankAdvance + central
		case board.Knight:
			if r >= 2 && r <= 5 && c >= 2 && c <= 5 {
				bonus += 20
			}
			if r == 0 || r == 7 {
				bonus -= 15
			}
			if c == 0 || c == 7 {
				bonus -= 15
			}
		case board.Bishop:
			if r == c || r+c == 7 {
				bonus += 15
			}
		case board.Rook:
			seventh := 1
			if p.Color == board.Black {
				seventh = 6
			}
			if r == seventh {
				bonus += 30
			}
		case board.King:
			if endgame {
				bonus = int(14 - 2*(math.Abs(3.5-float64(r))+math.Abs(3.5-float64(c))))
			} else {
				backRank := 7
				if p.Color == board.Black {
					backRank = 0
				}
				onEdgeFile := c == 0 || c == 1 || c == 2 || c == 5 || c == 6 || c == 7
				if r == backRank && onEdgeFile {
					bonus = 20
				}
			}
		}
		if p.Color == board.White {
			total += bonus
		} else {
			total -= bonus
		}
	})
	return total
}

// isEndgameLocal is the evaluator's own endgame predicate (distinct from the endgame
// classifier in pkg/endgame, which uses a different threshold for its own purposes): true
// iff total non-king non-pawn pieces is at most 6, or neither side has a queen.
func isEndgameLocal(b *board.Board) bool {
	minor := 0
	whiteQueen, blackQueen := false, false
	forEachPiece(b, func(r, c int, p board.Piece) {
		switch p.Kind {
		case board.Knight, board.Bishop, board.Rook, board.Queen:
			minor++
		}
		if p.Kind == board.Queen {
			if p.Color == board.White {
				whiteQueen = true
			} else {
				blackQueen = true
			}
		}
	})
	return minor <= 6 || (!whiteQueen && !blackQueen)
}

func mobility(b *board.Board) int {
	whiteCount := mobilityCount(b, board.White)
	blackCount := mobilityCount(b, board.Black)
	return (whiteCount - blackCount) * 5
}

func mobilityCount(b *board.Board, color board.Color) int {
	cp := b.Copy()
	forceTurn(cp, color)

	total := 0
	for _, m := range board.GenerateLegal(cp) {
		total++
		switch cp.PieceAt(m.FromRow, m.FromCol).Kind {
		case board.Knight, board.Bishop:
			total += 2
		}
	}
	return total
}

func forceTurn(b *board.Board, color board.Color) {
	if b.Turn() != color {
		b.SwitchTurn()
	}
}

func pawnStructure(b *board.Board) int {
	return pawnStructureFor(b, board.White) - pawnStructureFor(b, board.Black)
}

func pawnStructureFor(b *board.Board, color board.Color) int {
	var files [8][]int // rows of this color's pawns per file
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			p := b.PieceAt(r, c)
			if p.Kind == board.Pawn && p.Color == color {
				files[c] = append(files[c], r)
			}
		}
	}

	total := 0
	for c := 0; c < 8; c++ {
		if n := len(files[c]); n > 1 {
			total -= (n - 1) * 20 // doubled
		}
	}
	for c := 0; c < 8; c++ {
		if len(files[c]) == 0 {
			continue
		}
		hasNeighbor := (c > 0 && len(files[c-1]) > 0) || (c < 7 && len(files[c+1]) > 0)
		if !hasNeighbor {
			total -= len(files[c]) * 15 // isolated
		}
	}

	opp := enemyFiles(b, color)
	for c := 0; c < 8; c++ {
		for _, r := range files[c] {
			if isPassed(r, c, color, opp) {
				total += 30
			}
		}
	}
	return total
}

func enemyFiles(b *board.Board, color board.Color) [8][]int {
	var files [8][]int
	enemy := color.Opponent()
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			p := b.PieceAt(r, c)
			if p.Kind == board.Pawn && p.Color == enemy {
				files[c] = append(files[c], r)
			}
		}
	}
	return files
}

// IsPassedPawn reports whether a color pawn on (r,c) has no enemy pawn on its own file or
// either adjacent file, anywhere strictly ahead. Exported so search.Extensions (the
// passed-pawn-push predicate) can reuse the same definition as the evaluator.
func IsPassedPawn(b *board.Board, r, c int, color board.Color) bool {
	return isPassed(r, c, color, enemyFiles(b, color))
}

func isPassed(r, c int, color board.Color, enemyFiles [8][]int) bool {
	for _, fc := range adjacentFiles(c) {
		for _, er := range enemyFiles[fc] {
			if color == board.White && er < r {
				return false
			}
			if color == board.Black && er > r {
				return false
			}
		}
	}
	return true
}

func adjacentFiles(c int) []int {
	files := []int{c}
	if c > 0 {
		files = append(files, c-1)
	}
	if c < 7 {
		files = append(files, c+1)
	}
	return files
}

func kingSafety(b *board.Board) int {
	return kingSafetyFor(b, board.White) - kingSafetyFor(b, board.Black)
}

func kingSafetyFor(b *board.Board, color board.Color) int {
	total := 0
	if b.InCheck(color) {
		total -= 50
	}

	k := b.KingPosition(color)
	if k < 0 {
		return total
	}
	kr, kc := k/8, k%8

	backRank := 7
	frontRow := 6
	if color == board.Black {
		backRank = 0
		frontRow = 1
	}
	if kr != backRank {
		return total
	}
	for dc := -1; dc <= 1; dc++ {
		c := kc + dc
		if c < 0 || c > 7 {
			continue
		}
		p := b.PieceAt(frontRow, c)
		if p.Kind == board.Pawn && p.Color == color {
			total += 15
		}
	}
	return total
}
