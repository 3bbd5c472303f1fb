package book

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/nthorn/caissa/pkg/board"
)

// LoadFile reads an opening book from path; see Load for the file format.
func LoadFile(path string, seed int64) (*WeightedBook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open book %q: %w", path, err)
	}
	defer f.Close()

	return Load(f, seed)
}

// Load parses the text opening-book format (spec.md section 6): one position per line,
//
//	<key>|<move1> <move2> ...|<w1> <w2> ...
//
// where key is a position key (see board.Key), moves are UCI coordinate notation (see
// board.ParseMove) separated by whitespace, and weights are positive integers separated by
// whitespace, in the same order as the moves. The weights field may be omitted entirely (a
// bare "<key>|<moves>" line), or shorter than the move list; per spec.md section 4.11,
// missing weights default to 1. Blank lines and lines starting with '#' are ignored. A
// malformed entry is skipped with its line number and error wrapped into the returned error,
// rather than aborting the whole load -- one bad line in a hand-edited book file shouldn't
// cost every other line.
func Load(r io.Reader, seed int64) (*WeightedBook, error) {
	b := New(seed)

	var errs []string
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		if err := loadLine(b, text); err != nil {
			errs = append(errs, fmt.Sprintf("line %d: %v", line, err))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read book: %w", err)
	}
	if len(errs) > 0 {
		return b, fmt.Errorf("malformed book entries:\n%s", strings.Join(errs, "\n"))
	}
	return b, nil
}

func loadLine(b *WeightedBook, text string) error {
	fields := strings.Split(text, "|")
	if len(fields) != 2 && len(fields) != 3 {
		return fmt.Errorf("expected 2 or 3 '|'-separated fields, got %d: %q", len(fields), text)
	}
	key := fields[0]

	moveStrs := strings.Fields(fields[1])
	var weightStrs []string
	if len(fields) == 3 {
		weightStrs = strings.Fields(fields[2])
	}
	if len(weightStrs) > len(moveStrs) {
		return fmt.Errorf("%d moves but %d weights", len(moveStrs), len(weightStrs))
	}

	moves := make([]board.Move, len(moveStrs))
	weights := make([]int, len(moveStrs))
	for i, ms := range moveStrs {
		m, err := board.ParseMove(ms)
		if err != nil {
			return fmt.Errorf("move %d (%q): %w", i, ms, err)
		}
		w := 1
		if i < len(weightStrs) {
			w, err = strconv.Atoi(weightStrs[i])
			if err != nil {
				return fmt.Errorf("weight %d (%q): %w", i, weightStrs[i], err)
			}
		}
		moves[i], weights[i] = m, w
	}
	for i, m := range moves {
		b.Add(key, m, weights[i])
	}
	return nil
}
