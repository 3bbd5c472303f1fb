// Package engine wires the board, evaluator, search family, opening book and endgame
// classifier into a single game-playing session: the object a front end (UCI or console)
// actually drives.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/nthorn/caissa/pkg/board"
	"github.com/nthorn/caissa/pkg/book"
	"github.com/nthorn/caissa/pkg/endgame"
	"github.com/nthorn/caissa/pkg/search"
	"github.com/nthorn/caissa/pkg/search/searchctl"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

var version = build.NewVersion(0, 1, 0)

// Options are runtime search options. DepthLimit and TimeControl on an individual Analyze
// call override these defaults.
type Options struct {
	// Depth is the default search depth limit. Zero means no limit.
	Depth uint
	// Hash enables the transposition table when true.
	Hash bool
	// PVS selects the principal-variation-search strategy instead of plain alpha-beta.
	PVS bool
	// NullMove enables null-move pruning.
	NullMove bool
	// LMR enables late-move reduction.
	LMR bool
}

func (o Options) String() string {
	return fmt.Sprintf("{depth=%v, hash=%v, pvs=%v, nullmove=%v, lmr=%v}", o.Depth, o.Hash, o.PVS, o.NullMove, o.LMR)
}

// Engine encapsulates game-playing logic: it owns the current position, consults the opening
// book and endgame classifier before falling back to iterative-deepening search, and exposes
// the small set of operations a text protocol front end needs.
type Engine struct {
	name, author string

	launcher searchctl.Launcher
	book     book.Book
	endgame  *endgame.Cache
	observer Observer
	opts     Options

	b      *board.Board
	tt     *search.TTable
	active searchctl.Handle
	mu     sync.Mutex
}

// Option is an engine creation option.
type Option func(*Engine)

// WithOptions sets default runtime options.
func WithOptions(opts Options) Option {
	return func(e *Engine) { e.opts = opts }
}

// WithBook configures the opening book consulted before every search.
func WithBook(b book.Book) Option {
	return func(e *Engine) { e.book = b }
}

// Observer receives a copy of every PV published by Analyze, keyed by the position it was
// found for. pkg/remote.Hub satisfies this interface, so a caller that wants push-based PV
// updates over a websocket only needs to pass a *remote.Hub here -- Engine has no import-time
// dependency on that package.
type Observer interface {
	Publish(key string, pv search.PV)
}

// WithObserver registers an Observer that every Analyze call tees its PV stream through, in
// addition to the channel returned to the caller.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// New constructs an engine at the initial position.
func New(ctx context.Context, name, author string, opts ...Option) *Engine {
	e := &Engine{
		name:    name,
		author:  author,
		book:    book.New(0),
		endgame: endgame.NewCache(),
	}
	for _, fn := range opts {
		fn(e)
	}
	e.launcher = &searchctl.Iterative{}

	_ = e.Reset(ctx, board.InitialKey)

	logw.Infof(ctx, "Initialized engine: %v, options=%v", e.Name(), e.opts)
	return e
}

// Name returns the engine name and version.
func (e *Engine) Name() string {
	return fmt.Sprintf("%v %v", e.name, version)
}

// Author returns the author.
func (e *Engine) Author() string {
	return e.author
}

func (e *Engine) Options() Options {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.opts
}

func (e *Engine) SetDepth(depth uint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.Depth = depth
}

func (e *Engine) SetHash(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.Hash = enabled
	e.tt = nil
	if enabled {
		e.tt = search.NewTTable()
	}
}

func (e *Engine) SetPVS(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.PVS = enabled
}

func (e *Engine) SetNullMove(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.NullMove = enabled
}

func (e *Engine) SetLMR(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.LMR = enabled
}

// Board returns a copy of the current position.
func (e *Engine) Board() *board.Board {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.b.Copy()
}

// Position returns the current position key.
func (e *Engine) Position() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.b.Key()
}

// Reset resets the engine to the position named by key.
func (e *Engine) Reset(ctx context.Context, key string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Reset %v, opts=%v", key, e.opts)

	_, _ = e.haltSearchIfActive(ctx)

	b, err := board.FromKey(key)
	if err != nil {
		return err
	}
	e.b = b

	e.tt = nil
	if e.opts.Hash {
		e.tt = search.NewTTable()
	}

	logw.Infof(ctx, "New board: %v", e.b)
	return nil
}

// Move plays move on the current position; usually an opponent's move arriving over the
// protocol.
func (e *Engine) Move(ctx context.Context, move string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Move %v", move)

	candidate, err := board.ParseMove(move)
	if err != nil {
		return fmt.Errorf("invalid move: %w", err)
	}

	_, _ = e.haltSearchIfActive(ctx)

	for _, m := range board.GenerateLegal(e.b) {
		if !candidate.Equals(m) {
			continue
		}
		e.b.MovePiece(m.FromRow, m.FromCol, m.ToRow, m.ToCol)
		e.b.SwitchTurn()
		logw.Infof(ctx, "Move %v: %v", m, e.b)
		return nil
	}
	return fmt.Errorf("illegal move: %v", candidate)
}

func (e *Engine) strategy() search.Strategy {
	if e.opts.PVS {
		return search.PVS{TT: e.tt, NullMove: e.opts.NullMove, LMR: e.opts.LMR}
	}
	return search.AlphaBeta{TT: e.tt, NullMove: e.opts.NullMove, LMR: e.opts.LMR}
}

// FindBestMove selects a move for the current position: the opening book is consulted
// first, then the endgame classifier, and only if both decline does the engine launch a
// full iterative-deepening search and wait for it to halt.
func (e *Engine) FindBestMove(ctx context.Context, opt searchctl.Options) (board.Move, search.PV, error) {
	e.mu.Lock()
	b := e.b.Copy()
	e.mu.Unlock()

	if m, ok := e.book.Pick(ctx, b.Key()); ok {
		logw.Infof(ctx, "Book move for %v: %v", b.Key(), m)
		return m, search.PV{Moves: []board.Move{m}}, nil
	}

	if endgame.IsEndgamePosition(b) {
		if m := endgame.BestMove(b); !m.IsNone() {
			logw.Infof(ctx, "Endgame heuristic move for %v: %v", b.Key(), m)
			return m, search.PV{Moves: []board.Move{m}}, nil
		}
	}

	out, err := e.Analyze(ctx, opt)
	if err != nil {
		return board.NoMove, search.PV{}, err
	}

	var last search.PV
	for pv := range out {
		last = pv
	}
	return last.BestMove(), last, nil
}

// Analyze launches a search over the current position and returns a channel of increasingly
// deep PVs, one per completed iterative-deepening depth.
func (e *Engine) Analyze(ctx context.Context, opt searchctl.Options) (<-chan search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := opt.DepthLimit.V(); !ok && e.opts.Depth > 0 {
		opt.DepthLimit = lang.Some(e.opts.Depth)
	}

	logw.Infof(ctx, "Analyze %v, opt=%v", e.b, opt)

	if e.active != nil {
		return nil, fmt.Errorf("search already active")
	}

	key := e.b.Key()
	handle, out := e.launcher.Launch(ctx, e.strategy(), e.b.Copy(), e.tt, opt)
	e.active = handle
	return e.tee(key, out), nil
}

// tee forwards every PV from out to both the returned channel and the registered Observer,
// if any. Without an Observer it is a no-op passthrough.
func (e *Engine) tee(key string, out <-chan search.PV) <-chan search.PV {
	if e.observer == nil {
		return out
	}

	forwarded := make(chan search.PV, cap(out))
	go func() {
		defer close(forwarded)
		for pv := range out {
			e.observer.Publish(key, pv)
			forwarded <- pv
		}
	}()
	return forwarded
}

// Halt halts the active search and returns its last published PV, if any.
func (e *Engine) Halt(ctx context.Context) (search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Halt")

	pv, ok := e.haltSearchIfActive(ctx)
	if !ok {
		return search.PV{}, fmt.Errorf("no active search")
	}
	return pv, nil
}

func (e *Engine) haltSearchIfActive(ctx context.Context) (search.PV, bool) {
	if e.active != nil {
		pv := e.active.Halt()
		logw.Infof(ctx, "Search %v halted: %v", e.b, pv)
		e.active = nil
		return pv, true
	}
	return search.PV{}, false
}
