// Package book implements the opening book: a position-keyed table of candidate moves with
// integer weights, sampled by a seeded PRNG so a given book plus seed always replays the
// same game. Once a position is not found, the caller should stop consulting the book for
// the remainder of the game -- this package makes no attempt to track that itself.
package book

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"

	"github.com/nthorn/caissa/pkg/board"
)

// Book is a position-key indexed table of weighted move choices.
type Book interface {
	// Find returns the candidate moves known for the position key, or nil if the book has
	// nothing for it.
	Find(ctx context.Context, key string) ([]board.Move, error)
	// Pick samples one move from Find's candidates, weighted by the book's stored weights.
	// The second return is false if the book has nothing for the position key.
	Pick(ctx context.Context, key string) (board.Move, bool)
}

// entry is one position's candidate moves plus their weights, parallel slices in insertion
// order so weighted sampling stays deterministic for a given seed.
type entry struct {
	moves   []board.Move
	weights []int
	total   int
}

// WeightedBook is the in-memory Book implementation.
type WeightedBook struct {
	mu      sync.Mutex
	entries map[string]*entry
	rng     *rand.Rand
}

// New returns an empty book with a PRNG seeded by seed. Same seed, same book contents, same
// sequence of Pick calls always yields the same moves -- the design explicitly favors
// reproducibility over cryptographic randomness.
func New(seed int64) *WeightedBook {
	return &WeightedBook{
		entries: map[string]*entry{},
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// normalizeKey reduces a position key to its first four space-separated fields: the piece
// layout, the turn marker and the next two fields. board.Key() always produces six fields
// (layout, turn, then the " - - 0 1" suffix), so a board.Key() lookup normalizes to
// "<layout> <turn> - -". A stored key matches that lookup only if its own first four fields
// are the same; a two-field "<layout> <turn>" key, or one carrying castling or en-passant
// fields, does not match a board.Key() lookup.
func normalizeKey(key string) string {
	fields := strings.Fields(key)
	if len(fields) > 4 {
		fields = fields[:4]
	}
	return strings.Join(fields, " ")
}

// Add registers a candidate move for key with the given weight. Weight must be positive;
// non-positive weights are ignored.
func (b *WeightedBook) Add(key string, m board.Move, weight int) {
	if weight <= 0 {
		return
	}
	key = normalizeKey(key)

	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.entries[key]
	if !ok {
		e = &entry{}
		b.entries[key] = e
	}
	e.moves = append(e.moves, m)
	e.weights = append(e.weights, weight)
	e.total += weight
}

func (b *WeightedBook) Find(ctx context.Context, key string) ([]board.Move, error) {
	key = normalizeKey(key)

	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.entries[key]
	if !ok {
		return nil, nil
	}
	out := append([]board.Move(nil), e.moves...)
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out, nil
}

func (b *WeightedBook) Pick(ctx context.Context, key string) (board.Move, bool) {
	key = normalizeKey(key)

	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.entries[key]
	if !ok || e.total <= 0 {
		return board.NoMove, false
	}

	roll := b.rng.Intn(e.total)
	acc := 0
	for i, w := range e.weights {
		acc += w
		if roll < acc {
			return e.moves[i], true
		}
	}
	return e.moves[len(e.moves)-1], true // unreachable: roll < e.total, the sum of the weights
}

func (b *WeightedBook) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return fmt.Sprintf("book[%d positions]", len(b.entries))
}
