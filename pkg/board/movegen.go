package board

// GeneratePseudoLegal enumerates all pseudo-legal moves for the side to move: square-by-square
// (row ascending, then col ascending), with each piece's own moves added in a fixed direction
// order. It does not check whether the mover's king ends up in check.
func GeneratePseudoLegal(b *Board) []Move {
	var moves []Move
	turn := b.Turn()
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			p := b.PieceAt(r, c)
			if p.IsEmpty() || p.Color != turn {
				continue
			}
			switch p.Kind {
			case Pawn:
				moves = append(moves, pawnMoves(b, r, c, p.Color)...)
			case Knight:
				moves = append(moves, offsetMoves(b, r, c, knightOffsets)...)
			case Bishop:
				moves = append(moves, rayMoves(b, r, c, bishopDirs)...)
			case Rook:
				moves = append(moves, rayMoves(b, r, c, rookDirs)...)
			case Queen:
				moves = append(moves, rayMoves(b, r, c, queenDirs)...)
			case King:
				moves = append(moves, offsetMoves(b, r, c, kingOffsets)...)
			}
		}
	}
	return moves
}

// GenerateLegal filters the pseudo-legal moves by simulating each on a copy: make the move,
// flip the turn, and reject the move iff the mover's king is left attacked. It does NOT call
// Board.IsMoveLegal.
func GenerateLegal(b *Board) []Move {
	mover := b.Turn()
	var legal []Move
	for _, m := range GeneratePseudoLegal(b) {
		cp := b.Copy()
		cp.MovePiece(m.FromRow, m.FromCol, m.ToRow, m.ToCol)
		cp.SwitchTurn()
		if !cp.InCheck(mover) {
			legal = append(legal, m)
		}
	}
	return legal
}

func pawnMoves(b *Board, r, c int, color Color) []Move {
	var moves []Move

	dir := -1
	startRow := 6
	if color == Black {
		dir = 1
		startRow = 1
	}

	// Single push.
	if b.PieceAt(r+dir, c).IsEmpty() {
		moves = append(moves, Move{FromRow: r, FromCol: c, ToRow: r + dir, ToCol: c})

		// Double push, only possible if the single push square was empty too.
		if r == startRow && b.PieceAt(r+2*dir, c).IsEmpty() {
			moves = append(moves, Move{FromRow: r, FromCol: c, ToRow: r + 2*dir, ToCol: c})
		}
	}

	// Diagonal captures.
	for _, dc := range []int{-1, 1} {
		tr, tc := r+dir, c+dc
		target := b.PieceAt(tr, tc)
		if onBoard(tr, tc) && !target.IsEmpty() && target.Color != color {
			moves = append(moves, Move{FromRow: r, FromCol: c, ToRow: tr, ToCol: tc})
		}
	}

	return moves
}

func offsetMoves(b *Board, r, c int, offsets [][2]int) []Move {
	var moves []Move
	mover := b.PieceAt(r, c)
	for _, o := range offsets {
		tr, tc := r+o[0], c+o[1]
		if !onBoard(tr, tc) {
			continue
		}
		target := b.PieceAt(tr, tc)
		if target.IsEmpty() || target.Color != mover.Color {
			moves = append(moves, Move{FromRow: r, FromCol: c, ToRow: tr, ToCol: tc})
		}
	}
	return moves
}

func rayMoves(b *Board, r, c int, dirs [][2]int) []Move {
	var moves []Move
	mover := b.PieceAt(r, c)
	for _, d := range dirs {
		tr, tc := r+d[0], c+d[1]
		for onBoard(tr, tc) {
			target := b.PieceAt(tr, tc)
			if target.IsEmpty() {
				moves = append(moves, Move{FromRow: r, FromCol: c, ToRow: tr, ToCol: tc})
			} else {
				if target.Color != mover.Color {
					moves = append(moves, Move{FromRow: r, FromCol: c, ToRow: tr, ToCol: tc})
				}
				break // ray stops at any blocker
			}
			tr += d[0]
			tc += d[1]
		}
	}
	return moves
}
