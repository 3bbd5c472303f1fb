package searchctl

import (
	"fmt"
	"time"

	"github.com/nthorn/caissa/pkg/board"
)

// TimeControl represents time control information: each side's remaining clock, plus the
// per-move increment each side receives (UCI's wtime/btime/winc/binc).
type TimeControl struct {
	White, Black       time.Duration
	WhiteInc, BlackInc time.Duration
	Moves              int // 0 == rest of game
}

func (t TimeControl) String() string {
	if t.Moves == 0 {
		return fmt.Sprintf("%.1f(+%.1f)<>%.1f(+%.1f)", t.White.Seconds(), t.WhiteInc.Seconds(), t.Black.Seconds(), t.BlackInc.Seconds())
	}
	return fmt.Sprintf("%.1f(+%.1f)<>%.1f(+%.1f)[moves=%v]", t.White.Seconds(), t.WhiteInc.Seconds(), t.Black.Seconds(), t.BlackInc.Seconds(), t.Moves)
}

// baseFraction is the share of the remaining clock spent on a single move under normal play.
const baseFraction = 0.03

// aggressiveMultiplier scales the budget up when Options.Aggressive is set. No caller in this
// module sets Aggressive; the UCI driver leaves it false.
const aggressiveMultiplier = 1.5

// DeriveBudget computes a soft wall-clock deadline for the side to move: a fraction of
// (remaining-time + increment), per spec.md section 6, scaled by aggressiveMultiplier when
// aggressive is set. moves, if > 0, spreads the budget over the expected remaining moves
// instead of a flat fraction; 0 assumes the rest of the game is played at the base fraction.
func DeriveBudget(t TimeControl, turn board.Color, aggressive bool) time.Duration {
	remainder, inc := t.White, t.WhiteInc
	if turn == board.Black {
		remainder, inc = t.Black, t.BlackInc
	}

	fraction := baseFraction
	if t.Moves > 0 {
		fraction = 1.0 / float64(t.Moves+1)
		if fraction > baseFraction*10 {
			fraction = baseFraction * 10
		}
	}

	budget := time.Duration(float64(remainder+inc) * fraction)
	if aggressive {
		budget = time.Duration(float64(budget) * aggressiveMultiplier)
	}
	return budget
}
