// caissa is a UCI chess engine built on the search core in pkg/search.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/nthorn/caissa/pkg/book"
	"github.com/nthorn/caissa/pkg/engine"
	"github.com/nthorn/caissa/pkg/engine/console"
	"github.com/nthorn/caissa/pkg/engine/uci"
	"github.com/nthorn/caissa/pkg/remote"
	"github.com/seekerror/logw"
)

var (
	depth      = flag.Uint("depth", 0, "Default search depth limit (zero for none)")
	hash       = flag.Bool("hash", true, "Enable the transposition table")
	pvs        = flag.Bool("pvs", true, "Use principal-variation search instead of plain alpha-beta")
	nullMove   = flag.Bool("nullmove", true, "Enable null-move pruning")
	lmr        = flag.Bool("lmr", true, "Enable late-move reduction")
	bookPath   = flag.String("book", "", "Opening book file (see pkg/book.Load for the format)")
	remoteAddr = flag.String("remote-addr", "", "If set, serve a websocket PV feed at ws://<addr>/ws for spectators")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: caissa [options]

CAISSA is a UCI chess engine: negamax search with alpha-beta pruning,
quiescence, transposition memoization, null-move pruning, late-move
reduction and iterative deepening.

Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	opts := []engine.Option{
		engine.WithOptions(engine.Options{
			Depth:    *depth,
			Hash:     *hash,
			PVS:      *pvs,
			NullMove: *nullMove,
			LMR:      *lmr,
		}),
	}
	if *bookPath != "" {
		b, err := book.LoadFile(*bookPath, 0)
		if err != nil {
			logw.Exitf(ctx, "Invalid book %q: %v", *bookPath, err)
		}
		opts = append(opts, engine.WithBook(b))
	}
	if *remoteAddr != "" {
		hub := remote.NewHub()
		opts = append(opts, engine.WithObserver(hub))

		mux := http.NewServeMux()
		mux.Handle("/ws", hub)
		go func() {
			if err := http.ListenAndServe(*remoteAddr, mux); err != nil {
				logw.Errorf(ctx, "Remote PV feed stopped: %v", err)
			}
		}()
		logw.Infof(ctx, "Serving remote PV feed at ws://%v/ws", *remoteAddr)
	}

	e := engine.New(ctx, "caissa", "nthorn", opts...)

	in := engine.ReadStdinLines(ctx)
	switch <-in {
	case uci.ProtocolName:
		driver, out := uci.NewDriver(ctx, e, in)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	case console.ProtocolName:
		driver, out := console.NewDriver(ctx, e, in)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	default:
		flag.Usage()
		logw.Exitf(ctx, "Protocol not supported")
	}
}
