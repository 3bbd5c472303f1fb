package uci_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/nthorn/caissa/pkg/engine"
	"github.com/nthorn/caissa/pkg/engine/uci"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, out <-chan string, timeout time.Duration) []string {
	t.Helper()
	var lines []string
	deadline := time.After(timeout)
	for {
		select {
		case line, ok := <-out:
			if !ok {
				return lines
			}
			lines = append(lines, line)
		case <-deadline:
			return lines
		}
	}
}

func TestHandshake(t *testing.T) {
	ctx := context.Background()
	e := engine.New(ctx, "caissa", "test")

	in := make(chan string)
	d, out := uci.NewDriver(ctx, e, in)
	defer d.Close()

	in <- "isready"
	close(in)

	lines := drain(t, out, time.Second)
	require.NotEmpty(t, lines)
	assert.True(t, strings.HasPrefix(lines[0], "id name"))

	found := false
	for _, l := range lines {
		if l == "readyok" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestPositionAndGoProducesBestMove(t *testing.T) {
	ctx := context.Background()
	e := engine.New(ctx, "caissa", "test")

	in := make(chan string, 4)
	d, out := uci.NewDriver(ctx, e, in)
	defer d.Close()

	in <- "position startpos"
	in <- "go depth 1"

	var lines []string
	deadline := time.After(2 * time.Second)
loop:
	for {
		select {
		case line, ok := <-out:
			if !ok {
				break loop
			}
			lines = append(lines, line)
			if strings.HasPrefix(line, "bestmove") {
				break loop
			}
		case <-deadline:
			break loop
		}
	}

	found := false
	for _, l := range lines {
		if strings.HasPrefix(l, "bestmove") {
			found = true
		}
	}
	assert.True(t, found)
}
