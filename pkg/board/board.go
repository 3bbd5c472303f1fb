// Package board contains the position representation and move semantics the search core
// operates on: an 8x8 array board, pseudo-legal and legal move generation, and the
// position-key encoding shared by the transposition table, opening book and endgame cache.
package board

import (
	"fmt"
	"strconv"
	"strings"
)

// Board is a value-copyable chess position: an 8x8 array of squares plus the side to move.
// Row 0 is the top rank (Black's back rank on the initial position); row 7 is the bottom
// rank (White's back rank). Boards carry no castling-rights, en-passant or halfmove-clock
// state -- see spec.md Non-goals.
type Board struct {
	squares [8][8]Piece
	turn    Color
}

// NewBoard returns an empty board with White to move.
func NewBoard() *Board {
	return &Board{turn: White}
}

// Copy returns an independent value copy. Child nodes during search descend via Copy, never
// aliasing the parent.
func (b *Board) Copy() *Board {
	cp := *b
	return &cp
}

// Equals compares array contents and turn.
func (b *Board) Equals(o *Board) bool {
	if b.turn != o.turn {
		return false
	}
	return b.squares == o.squares
}

// Turn returns the side to move.
func (b *Board) Turn() Color {
	return b.turn
}

// SwitchTurn toggles the side to move.
func (b *Board) SwitchTurn() {
	b.turn = b.turn.Opponent()
}

func onBoard(r, c int) bool {
	return r >= 0 && r < 8 && c >= 0 && c < 8
}

// PieceAt returns the piece on (row,col), or NoPiece if the square is vacant or out of bounds.
func (b *Board) PieceAt(row, col int) Piece {
	if !onBoard(row, col) {
		return NoPiece
	}
	return b.squares[row][col]
}

// SetPiece places p on (row,col). Out-of-bounds coordinates are a no-op.
func (b *Board) SetPiece(row, col int, p Piece) {
	if !onBoard(row, col) {
		return
	}
	b.squares[row][col] = p
}

// MovePiece vacates (sr,sc) and overwrites (er,ec) with whatever was there, unconditionally.
// No legality check is performed -- callers are expected to have already generated or
// validated the move.
func (b *Board) MovePiece(sr, sc, er, ec int) {
	p := b.PieceAt(sr, sc)
	b.SetPiece(sr, sc, NoPiece)
	b.SetPiece(er, ec, p)
}

// KingPosition returns the linear index row*8+col of color's king, or -1 if absent.
func (b *Board) KingPosition(color Color) int {
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			p := b.squares[r][c]
			if p.Kind == King && p.Color == color {
				return r*8 + c
			}
		}
	}
	return -1
}

// IsCapture reports whether moving from (sr,sc) to (er,ec) captures an enemy piece.
func (b *Board) IsCapture(sr, sc, er, ec int) bool {
	src := b.PieceAt(sr, sc)
	dst := b.PieceAt(er, ec)
	if src.IsEmpty() || dst.IsEmpty() {
		return false
	}
	return dst.Color != src.Color
}

// IsCastling is a heuristic move classifier: a king piece moving exactly two files on the
// same rank. The move generator never emits castling moves; this predicate exists only for
// future extension and move classification.
func (b *Board) IsCastling(sr, sc, er, ec int) bool {
	src := b.PieceAt(sr, sc)
	if src.Kind != King {
		return false
	}
	return sr == er && abs(ec-sc) == 2
}

// IsMoveLegal validates a move for the side to move: the source holds a mover piece, the
// destination is empty or enemy, the destination is within the source's pseudo-attack set,
// and the mover's king is not left in check. Note this uses the PSEUDO-ATTACK set, not the
// pseudo-legal move set -- a pawn's attack set is its diagonal captures only, so a plain
// forward push is never "legal" by this predicate. This is not used by move generation (see
// GenerateLegal); it exists for standalone move validation.
func (b *Board) IsMoveLegal(sr, sc, er, ec int) bool {
	src := b.PieceAt(sr, sc)
	if src.IsEmpty() || src.Color != b.turn {
		return false
	}
	dst := b.PieceAt(er, ec)
	if !dst.IsEmpty() && dst.Color == src.Color {
		return false
	}
	if !containsSquare(attackSquares(b, sr, sc), er, ec) {
		return false
	}

	cp := b.Copy()
	cp.MovePiece(sr, sc, er, ec)
	return !cp.InCheck(src.Color)
}

// InCheck reports whether color's king is attacked by the opposite color.
func (b *Board) InCheck(color Color) bool {
	k := b.KingPosition(color)
	if k < 0 {
		return false
	}
	return b.AttackedBy(k/8, k%8, color.Opponent())
}

// AttackedBy reports whether some piece of attacker has (r,c) within its pseudo-attack set.
// Does not consult Turn.
func (b *Board) AttackedBy(r, c int, attacker Color) bool {
	for ar := 0; ar < 8; ar++ {
		for ac := 0; ac < 8; ac++ {
			p := b.squares[ar][ac]
			if p.IsEmpty() || p.Color != attacker {
				continue
			}
			if containsSquare(attackSquares(b, ar, ac), r, c) {
				return true
			}
		}
	}
	return false
}

func containsSquare(squares [][2]int, r, c int) bool {
	for _, sq := range squares {
		if sq[0] == r && sq[1] == c {
			return true
		}
	}
	return false
}

var knightOffsets = [][2]int{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
var kingOffsets = [][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
var bishopDirs = [][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
var rookDirs = [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
var queenDirs = append(append([][2]int{}, bishopDirs...), rookDirs...)

// attackSquares returns the squares the piece on (r,c) pseudo-attacks: the two forward
// diagonals for pawns, L-offsets for knights, adjacent squares for kings, and ray expansion
// stopping at and INCLUDING the first occupied square for sliders.
func attackSquares(b *Board, r, c int) [][2]int {
	p := b.PieceAt(r, c)
	switch p.Kind {
	case Pawn:
		dir := -1
		if p.Color == Black {
			dir = 1
		}
		var out [][2]int
		for _, dc := range []int{-1, 1} {
			if onBoard(r+dir, c+dc) {
				out = append(out, [2]int{r + dir, c + dc})
			}
		}
		return out
	case Knight:
		return offsetSquares(r, c, knightOffsets)
	case King:
		return offsetSquares(r, c, kingOffsets)
	case Bishop:
		return rayAttacks(b, r, c, bishopDirs)
	case Rook:
		return rayAttacks(b, r, c, rookDirs)
	case Queen:
		return rayAttacks(b, r, c, queenDirs)
	default:
		return nil
	}
}

func offsetSquares(r, c int, offsets [][2]int) [][2]int {
	var out [][2]int
	for _, o := range offsets {
		if nr, nc := r+o[0], c+o[1]; onBoard(nr, nc) {
			out = append(out, [2]int{nr, nc})
		}
	}
	return out
}

func rayAttacks(b *Board, r, c int, dirs [][2]int) [][2]int {
	var out [][2]int
	for _, d := range dirs {
		nr, nc := r+d[0], c+d[1]
		for onBoard(nr, nc) {
			out = append(out, [2]int{nr, nc})
			if !b.PieceAt(nr, nc).IsEmpty() {
				break // blocker square is itself attacked, then the ray stops
			}
			nr += d[0]
			nc += d[1]
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Key returns the canonical FEN-like position key: piece layout row-by-row (row 0 first),
// runs of empty squares collapsed to a digit, ranks separated by '/', then a space and 'w'
// or 'b'. A " - - 0 1" suffix is appended for compatibility with FEN readers; FromKey
// ignores it.
func (b *Board) Key() string {
	var sb strings.Builder
	for r := 0; r < 8; r++ {
		empty := 0
		for c := 0; c < 8; c++ {
			p := b.squares[r][c]
			if p.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(p.Letter())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if r != 7 {
			sb.WriteByte('/')
		}
	}
	sb.WriteByte(' ')
	sb.WriteString(b.turn.String())
	sb.WriteString(" - - 0 1")
	return sb.String()
}

// FromKey parses the inverse of Key. It is tolerant of missing trailing fields: turn
// defaults to White if the second field is absent, and any fields past the turn marker
// are ignored.
func FromKey(s string) (*Board, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty position key")
	}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("malformed key: expected 8 ranks, got %d: %q", len(ranks), s)
	}

	b := NewBoard()
	for r, rank := range ranks {
		c := 0
		for _, ch := range rank {
			switch {
			case ch >= '1' && ch <= '8':
				c += int(ch - '0')
			default:
				kind, ok := ParseKind(ch)
				if !ok {
					return nil, fmt.Errorf("malformed key: invalid piece %q in %q", ch, s)
				}
				color := Black
				if ch >= 'A' && ch <= 'Z' {
					color = White
				}
				if c >= 8 {
					return nil, fmt.Errorf("malformed key: rank %d overflows: %q", r, s)
				}
				b.SetPiece(r, c, Piece{Kind: kind, Color: color})
				c++
			}
		}
		if c != 8 {
			return nil, fmt.Errorf("malformed key: rank %d has %d squares, want 8: %q", r, c, s)
		}
	}

	b.turn = White
	if len(fields) >= 2 {
		switch fields[1] {
		case "w":
			b.turn = White
		case "b":
			b.turn = Black
		default:
			return nil, fmt.Errorf("malformed key: invalid turn marker %q in %q", fields[1], s)
		}
	}
	return b, nil
}

func (b *Board) String() string {
	return b.Key()
}
