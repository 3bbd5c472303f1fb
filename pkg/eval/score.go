// Package eval contains static position evaluation: material, piece-square bonuses,
// mobility, pawn structure and king safety, combined into a single centipawn score.
package eval

// Score constants, in centipawns, from spec.md section 3.
const (
	Mate    = 10000
	Inf     = 100000
	Unknown = -Inf
)

// mateFloor is how far below Mate a score can sit and still be considered a forced-mate
// score: comfortably above any plausible material/positional evaluation, which never
// approaches Mate.
const mateFloor = Mate - 1000

// IsMateScore reports whether score represents a forced mate (for or against the side that
// produced it), as opposed to an ordinary positional evaluation.
func IsMateScore(score int) bool {
	return score >= mateFloor || score <= -mateFloor
}
