// Package endgame classifies endgame positions and provides a heuristic evaluator and move
// picker for them, consulted by the engine before falling back to the full search. Its
// classifier threshold is deliberately different from pkg/eval's own internal endgame
// predicate -- the two serve different purposes (tablebase-style specialization here,
// piece-square weighting there) and the spec's data model keeps them separate.
package endgame

import (
	"math"
	"sync"

	"github.com/nthorn/caissa/pkg/board"
	"github.com/nthorn/caissa/pkg/eval"
)

// Pattern is a cached classification of a position's material for endgame purposes: each
// side's piece counts indexed by Kind-1 (Pawn..King), and whether the position qualifies as
// an endgame.
type Pattern struct {
	White, Black [6]int
	IsEndgame    bool
}

// Cache memoizes Pattern results by position key, since a Pattern is a pure function of the
// board. Probe reads the cached Pattern but recomputes its score on every call.
type Cache struct {
	mu       sync.Mutex
	patterns map[string]Pattern
}

// NewCache returns an empty endgame pattern cache.
func NewCache() *Cache {
	return &Cache{patterns: map[string]Pattern{}}
}

// Classify returns the cached Pattern for b, computing and storing it on first use.
func (c *Cache) Classify(b *board.Board) Pattern {
	key := b.Key()

	c.mu.Lock()
	if p, ok := c.patterns[key]; ok {
		c.mu.Unlock()
		return p
	}
	c.mu.Unlock()

	p := classify(b)

	c.mu.Lock()
	c.patterns[key] = p
	c.mu.Unlock()
	return p
}

func classify(b *board.Board) Pattern {
	var p Pattern
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			piece := b.PieceAt(r, c)
			if piece.IsEmpty() {
				continue
			}
			counts := &p.White
			if piece.Color == board.Black {
				counts = &p.Black
			}
			counts[piece.Kind-1]++
		}
	}

	total := 0
	pawns := p.White[board.Pawn-1] + p.Black[board.Pawn-1]
	queens := p.White[board.Queen-1] + p.Black[board.Queen-1]
	for _, n := range p.White {
		total += n
	}
	for _, n := range p.Black {
		total += n
	}

	p.IsEndgame = total <= 12 || queens == 0 || (total <= 16 && pawns <= 4)
	return p
}

// IsEndgamePosition reports whether b qualifies as an endgame per the classifier threshold.
func IsEndgamePosition(b *board.Board) bool {
	return classify(b).IsEndgame
}

// Probe returns a heuristic material-plus-hint score for an endgame position, from White's
// perspective, or eval.Unknown if the position does not classify as an endgame.
func (c *Cache) Probe(b *board.Board) int {
	p := c.Classify(b)
	if !p.IsEndgame {
		return eval.Unknown
	}

	score := 0
	for k := board.Pawn; k <= board.Queen; k++ {
		score += (p.White[k-1] - p.Black[k-1]) * k.Value()
	}
	score += kingCentralizationHint(b)
	return score
}

// kingCentralizationHint nudges the score toward driving the materially weaker side's king
// toward the board edge, the standard winning technique in basic mating endgames.
func kingCentralizationHint(b *board.Board) int {
	weaker := board.White
	if nonKingMaterial(b, board.White) > nonKingMaterial(b, board.Black) {
		weaker = board.Black
	}

	k := b.KingPosition(weaker)
	if k < 0 {
		return 0
	}
	r, c := k/8, k%8
	edgeDistance := int(math.Abs(float64(r)-3.5) + math.Abs(float64(c)-3.5))

	if weaker == board.White {
		return -edgeDistance
	}
	return edgeDistance
}

func nonKingMaterial(b *board.Board, color board.Color) int {
	total := 0
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			p := b.PieceAt(r, c)
			if p.Color == color && p.Kind != board.King {
				total += p.Kind.Value()
			}
		}
	}
	return total
}
