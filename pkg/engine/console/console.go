// Package console contains a line-based driver for interactive debugging: print the board,
// step through moves, run an analysis and watch depths stream in.
package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/nthorn/caissa/pkg/board"
	"github.com/nthorn/caissa/pkg/search"
	"github.com/nthorn/caissa/pkg/search/searchctl"

	"github.com/nthorn/caissa/pkg/engine"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

const ProtocolName = "console"

// Driver is a console driver for debugging.
type Driver struct {
	iox.AsyncCloser

	e   *engine.Engine
	out chan<- string

	active atomic.Bool
}

func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{
		AsyncCloser: iox.NewAsyncCloser(),
		e:           e,
		out:         out,
	}
	go d.process(ctx, in)
	return d, out
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	logw.Infof(ctx, "Console protocol initialized")

	d.out <- fmt.Sprintf("engine %v (%v)", d.e.Name(), d.e.Author())
	d.printBoard(ctx)

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "Input stream broken. Exiting")
				return
			}
			if !d.handle(ctx, strings.TrimSpace(line)) {
				return
			}

		case <-d.Closed():
			d.ensureInactive(ctx)
			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

func (d *Driver) handle(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}
	cmd, args := parts[0], parts[1:]

	switch strings.ToLower(cmd) {
	case "reset", "r":
		d.ensureInactive(ctx)

		key := board.InitialKey
		if len(args) > 0 && args[0] != "moves" {
			key = strings.Join(args, " ")
			if i := strings.Index(key, "moves"); i >= 0 {
				key = strings.TrimSpace(key[:i])
			}
		}
		if err := d.e.Reset(ctx, key); err != nil {
			logw.Errorf(ctx, "Invalid position: %v", line)
			return false
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
				logw.Errorf(ctx, "Invalid position move %q: %v: %v", arg, line, err)
				return false
			}
		}
		d.printBoard(ctx)

	case "print", "p":
		d.printBoard(ctx)

	case "analyze", "a":
		d.ensureInactive(ctx)

		var opt searchctl.Options
		if len(args) > 0 {
			depth, _ := strconv.Atoi(args[0])
			opt.DepthLimit = lang.Some(uint(depth))
		}

		out, err := d.e.Analyze(ctx, opt)
		if err != nil {
			logw.Errorf(ctx, "Analyze failed: %v", err)
			return false
		}
		d.active.Store(true)

		go func() {
			var last search.PV
			for pv := range out {
				last = pv
				d.out <- pv.String()
			}
			d.searchCompleted(last)
		}()

	case "depth", "d":
		if len(args) > 0 {
			depth, _ := strconv.Atoi(args[0])
			d.e.SetDepth(uint(depth))
		}

	case "hash":
		d.e.SetHash(true)

	case "nohash":
		d.e.SetHash(false)

	case "halt", "stop":
		pv, err := d.e.Halt(ctx)
		if err == nil {
			d.searchCompleted(pv)
		}

	case "quit", "exit", "q":
		d.ensureInactive(ctx)
		return false

	default:
		d.ensureInactive(ctx)
		if err := d.e.Move(ctx, cmd); err != nil {
			d.out <- fmt.Sprintf("invalid move: %q", cmd)
		} else {
			d.printBoard(ctx)
		}
	}
	return true
}

func (d *Driver) ensureInactive(ctx context.Context) {
	d.active.Store(false)
	_, _ = d.e.Halt(ctx)
}

func (d *Driver) searchCompleted(pv search.PV) {
	if d.active.CompareAndSwap(true, false) {
		if len(pv.Moves) > 0 {
			d.out <- fmt.Sprintf("bestmove %v", pv.Moves[0])
		}
	}
}

const (
	files      = "    a   b   c   d   e   f   g   h"
	horizontal = "  ---------------------------------"
	vertical   = " | "
)

func (d *Driver) printBoard(ctx context.Context) {
	b := d.e.Board()

	d.out <- ""
	d.out <- files
	d.out <- horizontal
	for r := 0; r < 8; r++ {
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("%d", 8-r))
		sb.WriteString(vertical)
		for c := 0; c < 8; c++ {
			p := b.PieceAt(r, c)
			if p.IsEmpty() {
				sb.WriteString(" ")
			} else {
				sb.WriteString(p.Letter())
			}
			sb.WriteString(vertical)
		}
		d.out <- sb.String()
		d.out <- horizontal
	}
	d.out <- files
	d.out <- ""
	d.out <- fmt.Sprintf("key: %v", d.e.Position())
	d.out <- ""
}
