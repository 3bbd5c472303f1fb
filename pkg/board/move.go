package board

import "fmt"

// Move is a value object identifying a single ply: the four board coordinates plus an
// optional promotion kind. Equality compares only the four coordinates -- promotion is
// observable (e.g. for move generation/printing) but is not part of a Move's identity.
type Move struct {
	FromRow, FromCol int
	ToRow, ToCol     int
	Promotion        Kind // Empty if not a promotion
}

// NoMove is the sentinel "no move" value, used where a lookup finds nothing: (-1,-1,-1,-1).
var NoMove = Move{FromRow: -1, FromCol: -1, ToRow: -1, ToCol: -1}

// IsNone reports whether m is the sentinel NoMove.
func (m Move) IsNone() bool {
	return m.Equals(NoMove)
}

// Equals compares the four coordinates only, per the data model: promotion is not part
// of a move's identity.
func (m Move) Equals(o Move) bool {
	return m.FromRow == o.FromRow && m.FromCol == o.FromCol && m.ToRow == o.ToRow && m.ToCol == o.ToCol
}

// String renders the move in UCI coordinate notation, e.g. "e2e4" or "a7a8q".
func (m Move) String() string {
	s := fmt.Sprintf("%v%v", squareString(m.FromRow, m.FromCol), squareString(m.ToRow, m.ToCol))
	if m.Promotion != Empty {
		s += m.Promotion.String()
	}
	return s
}

// squareString renders (row,col) as algebraic notation, with row 0 the 8th rank.
func squareString(row, col int) string {
	file := rune('a' + col)
	rank := rune('8' - row)
	return fmt.Sprintf("%c%c", file, rank)
}

// ParseSquare parses algebraic notation, such as "e2", into (row,col).
func ParseSquare(s string) (row, col int, err error) {
	if len(s) != 2 {
		return 0, 0, fmt.Errorf("invalid square: %q", s)
	}
	file, rank := rune(s[0]), rune(s[1])
	if file < 'a' || file > 'h' {
		return 0, 0, fmt.Errorf("invalid file: %q", s)
	}
	if rank < '1' || rank > '8' {
		return 0, 0, fmt.Errorf("invalid rank: %q", s)
	}
	col = int(file - 'a')
	row = int('8' - rank)
	return row, col, nil
}

// ParseMove parses a move in pure algebraic coordinate notation, such as "e2e4" or "a7a8q".
func ParseMove(s string) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return Move{}, fmt.Errorf("invalid move: %q", s)
	}
	fr, fc, err := ParseSquare(s[0:2])
	if err != nil {
		return Move{}, fmt.Errorf("invalid move %q: %v", s, err)
	}
	tr, tc, err := ParseSquare(s[2:4])
	if err != nil {
		return Move{}, fmt.Errorf("invalid move %q: %v", s, err)
	}

	m := Move{FromRow: fr, FromCol: fc, ToRow: tr, ToCol: tc}
	if len(s) == 5 {
		promo, ok := ParseKind(rune(s[4]))
		if !ok || promo == Pawn || promo == King {
			return Move{}, fmt.Errorf("invalid promotion in move: %q", s)
		}
		m.Promotion = promo
	}
	return m, nil
}
