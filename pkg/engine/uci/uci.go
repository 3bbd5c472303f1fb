// Package uci contains a driver for using the engine under the UCI protocol.
//
// See: http://wbec-ridderkerk.nl/html/UCIProtocol.html
package uci

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nthorn/caissa/pkg/board"
	"github.com/nthorn/caissa/pkg/engine"
	"github.com/nthorn/caissa/pkg/eval"
	"github.com/nthorn/caissa/pkg/search"
	"github.com/nthorn/caissa/pkg/search/searchctl"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"go.uber.org/atomic"
)

// ProtocolName is the name this driver activates for, sent by the front end as the first line.
const ProtocolName = "uci"

// Driver implements a UCI driver for an engine: a synchronous line-in/line-out translation
// layer between the GUI text protocol and the engine's Go API. It is intentionally the only
// package in the module allowed to know about that text protocol.
type Driver struct {
	e *engine.Engine

	out chan<- string

	active       atomic.Bool    // true while the GUI is waiting for a bestmove
	ponder       chan search.PV // forwards intermediate search info
	lastPosition string         // last "position" line seen, empty if none

	quit   chan struct{}
	closed atomic.Bool
}

// NewDriver starts a driver reading UCI commands from in and writing replies to the returned
// channel.
func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{
		e:      e,
		out:    out,
		ponder: make(chan search.PV, 400),
		quit:   make(chan struct{}),
	}
	go d.process(ctx, in)
	return d, out
}

// Close shuts the driver down. Idempotent.
func (d *Driver) Close() {
	if d.closed.CAS(false, true) {
		close(d.quit)
	}
}

func (d *Driver) Closed() <-chan struct{} {
	return d.quit
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	logw.Infof(ctx, "UCI protocol initialized")

	d.out <- fmt.Sprintf("id name %v", d.e.Name())
	d.out <- fmt.Sprintf("id author %v", d.e.Author())
	opts := d.e.Options()
	d.out <- fmt.Sprintf("option name Hash type check default %v", opts.Hash)
	d.out <- fmt.Sprintf("option name PVS type check default %v", opts.PVS)
	d.out <- fmt.Sprintf("option name NullMove type check default %v", opts.NullMove)
	d.out <- fmt.Sprintf("option name LMR type check default %v", opts.LMR)
	d.out <- "uciok"

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "Input stream broken. Exiting")
				return
			}
			if !d.handle(ctx, line) {
				return
			}

		case pv := <-d.ponder:
			if d.active.Load() {
				d.out <- printPV(pv)
			}

		case <-d.quit:
			d.ensureInactive(ctx)
			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

// handle processes one input line. It returns false when the driver should shut down.
func (d *Driver) handle(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}
	cmd, args := strings.ToLower(parts[0]), parts[1:]

	switch cmd {
	case "isready":
		d.out <- "readyok"

	case "debug":
		// no-op: this driver has no separate debug-trace mode.

	case "setoption":
		d.handleSetOption(args)

	case "ucinewgame":
		d.ensureInactive(ctx)
		d.lastPosition = ""
		_ = d.e.Reset(ctx, board.InitialKey)

	case "position":
		if err := d.handlePosition(ctx, line, args); err != nil {
			logw.Errorf(ctx, "Invalid position %q: %v", line, err)
			return false
		}

	case "go":
		if err := d.handleGo(ctx, args); err != nil {
			logw.Errorf(ctx, "go failed: %v", err)
			return false
		}

	case "stop":
		pv, err := d.e.Halt(ctx)
		if err == nil {
			d.searchCompleted(ctx, pv)
		}

	case "ponderhit":
		// not implemented: this engine never starts a ponder search of its own.

	case "quit":
		return false

	default:
		logw.Warningf(ctx, "Unknown command %q: %v", cmd, args)
	}
	return true
}

func (d *Driver) handleSetOption(args []string) {
	var name, value string
	if len(args) > 1 {
		name = args[1]
	}
	if len(args) > 3 {
		value = args[3]
	}

	switch name {
	case "Hash":
		if v, err := strconv.ParseBool(value); err == nil {
			d.e.SetHash(v)
		}
	case "PVS":
		if v, err := strconv.ParseBool(value); err == nil {
			d.e.SetPVS(v)
		}
	case "NullMove":
		if v, err := strconv.ParseBool(value); err == nil {
			d.e.SetNullMove(v)
		}
	case "LMR":
		if v, err := strconv.ParseBool(value); err == nil {
			d.e.SetLMR(v)
		}
	}
}

func (d *Driver) handlePosition(ctx context.Context, line string, args []string) error {
	d.ensureInactive(ctx)

	if d.lastPosition != "" && strings.HasPrefix(line, d.lastPosition) {
		moves := strings.TrimSpace(strings.TrimPrefix(line, d.lastPosition))
		for _, arg := range strings.Fields(moves) {
			if arg == "moves" {
				continue
			}
			if err := d.e.Move(ctx, arg); err != nil {
				return fmt.Errorf("move %q: %w", arg, err)
			}
		}
		d.lastPosition = line
		return nil
	}

	key := board.InitialKey
	if len(args) >= 1 && args[0] == "fen" {
		fields := args[1:]
		end := len(fields)
		for i, f := range fields {
			if f == "moves" {
				end = i
				break
			}
		}
		key = strings.Join(fields[:end], " ")
	}
	if err := d.e.Reset(ctx, key); err != nil {
		return err
	}

	move := false
	for _, arg := range args {
		if arg == "moves" {
			move = true
			continue
		}
		if !move {
			continue
		}
		if err := d.e.Move(ctx, arg); err != nil {
			return fmt.Errorf("move %q: %w", arg, err)
		}
	}
	d.lastPosition = line
	return nil
}

func (d *Driver) handleGo(ctx context.Context, args []string) error {
	d.ensureInactive(ctx)

	var opt searchctl.Options
	var tc searchctl.TimeControl
	haveTC := false
	infinite := false
	timeout := time.Duration(0)

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "wtime", "btime", "winc", "binc", "movestogo", "depth", "movetime":
			cmd := args[i]
			i++
			if i == len(args) {
				return fmt.Errorf("no argument for %v", cmd)
			}
			n, err := strconv.Atoi(args[i])
			if err != nil {
				return fmt.Errorf("invalid argument for %v: %w", cmd, err)
			}
			switch cmd {
			case "depth":
				opt.DepthLimit = lang.Some(uint(n))
			case "wtime":
				tc.White = time.Millisecond * time.Duration(n)
				haveTC = true
			case "btime":
				tc.Black = time.Millisecond * time.Duration(n)
				haveTC = true
			case "winc":
				tc.WhiteInc = time.Millisecond * time.Duration(n)
				haveTC = true
			case "binc":
				tc.BlackInc = time.Millisecond * time.Duration(n)
				haveTC = true
			case "movestogo":
				tc.Moves = n
				haveTC = true
			case "movetime":
				timeout = time.Millisecond * time.Duration(n)
			}
		case "infinite":
			infinite = true
		default:
			// searchmoves, ponder, nodes, mate: not implemented by this driver.
		}
	}
	if haveTC {
		opt.TimeControl = lang.Some(tc)
	}

	out, err := d.e.Analyze(ctx, opt)
	if err != nil {
		return err
	}
	d.active.Store(true)

	go func() {
		var last search.PV
		for pv := range out {
			last = pv
			d.ponder <- pv
		}
		if !infinite {
			d.searchCompleted(ctx, last)
		}
	}()

	if timeout > 0 {
		time.AfterFunc(timeout, func() {
			_, _ = d.e.Halt(ctx)
		})
	}
	return nil
}

func (d *Driver) ensureInactive(ctx context.Context) {
	d.active.Store(false)
	_, _ = d.e.Halt(ctx)
}

func (d *Driver) searchCompleted(ctx context.Context, pv search.PV) {
	if d.active.CAS(true, false) {
		if len(pv.Moves) > 0 {
			d.out <- printPV(pv)
			d.out <- fmt.Sprintf("bestmove %v", pv.Moves[0].String())
		} else {
			d.out <- "bestmove 0000"
		}
	}
}

func printPV(pv search.PV) string {
	parts := []string{"info", fmt.Sprintf("depth %v", pv.Depth)}
	if eval.IsMateScore(pv.Score) {
		plies := eval.Mate - abs(pv.Score)
		moves := (plies + 1) / 2
		if pv.Score < 0 {
			moves = -moves
		}
		parts = append(parts, fmt.Sprintf("score mate %v", moves))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %v", pv.Score))
	}
	if pv.Nodes > 0 {
		parts = append(parts, fmt.Sprintf("nodes %v", pv.Nodes))
	}
	if pv.Time > 0 {
		parts = append(parts, fmt.Sprintf("time %v", pv.Time.Milliseconds()))
		if pv.Nodes > 0 {
			parts = append(parts, fmt.Sprintf("nps %v", uint64(time.Second)*pv.Nodes/uint64(pv.Time)))
		}
	}
	if len(pv.Moves) > 0 {
		var moves []string
		for _, m := range pv.Moves {
			moves = append(moves, m.String())
		}
		parts = append(parts, "pv", strings.Join(moves, " "))
	}
	return strings.Join(parts, " ")
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
