package board

// InitialKey is the position key of the standard starting position.
const InitialKey = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1"

// Initial returns a board set to the standard starting position.
func Initial() *Board {
	b, err := FromKey(InitialKey)
	if err != nil {
		panic(err) // InitialKey is a compile-time constant; this can never fail.
	}
	return b
}
