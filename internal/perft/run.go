package perft

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hailam/chesssearch/internal/board"
)

// ErrMismatch reports a count that differs from the reference.
var ErrMismatch = errors.New("perft: node count mismatch")

// Result is the outcome of one case.
type Result struct {
	Case    Case
	Got     uint64
	Elapsed time.Duration
}

// Passed reports whether the count matched the reference.
func (r Result) Passed() bool {
	return r.Got == r.Case.Nodes
}

// Report is the outcome of a timed suite run.
type Report struct {
	Cases   []Result
	Elapsed time.Duration
	Nodes   uint64
	NPS     float64
	Passed  bool
}

// Options configures Run.
type Options struct {
	// SkipWarmup disables the untimed first pass.
	SkipWarmup bool
	// Logger receives one line per case; nil uses the standard logger.
	Logger *log.Logger
}

// Run counts every case twice: an untimed warm-up pass, then the timed pass
// the report describes. The suite passes only if every timed count matches.
func Run(cases []Case, opts Options) (*Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	positions := make([]*board.Position, len(cases))
	for i, c := range cases {
		pos, err := board.ParseFEN(c.FEN)
		if err != nil {
			return nil, fmt.Errorf("perft: case %s: %w", c.Name, err)
		}
		positions[i] = pos
	}

	if !opts.SkipWarmup {
		start := time.Now()
		for i, c := range cases {
			Count[board.Move](positions[i], c.Depth)
		}
		logger.Printf("[perft] warm-up pass done in %v", time.Since(start).Round(time.Millisecond))
	}

	report := &Report{Cases: make([]Result, len(cases)), Passed: true}
	start := time.Now()
	for i, c := range cases {
		caseStart := time.Now()
		got := Count[board.Move](positions[i], c.Depth)
		r := Result{Case: c, Got: got, Elapsed: time.Since(caseStart)}
		report.Cases[i] = r
		report.Nodes += got

		if r.Passed() {
			logger.Printf("[perft] %-10s depth %d: %d nodes in %v", c.Name, c.Depth, got, r.Elapsed.Round(time.Millisecond))
		} else {
			report.Passed = false
			logger.Printf("[perft] %-10s depth %d: MISMATCH got %d, want %d", c.Name, c.Depth, got, c.Nodes)
		}
	}
	report.Elapsed = time.Since(start)
	if secs := report.Elapsed.Seconds(); secs > 0 {
		report.NPS = float64(report.Nodes) / secs
	}
	return report, nil
}

// Verify counts the cases concurrently, each on its own position, with at
// most workers running at once. It returns the results in case order and
// an ErrMismatch-wrapping error for the first failing case.
func Verify(ctx context.Context, cases []Case, workers int) ([]Result, error) {
	if workers < 1 {
		workers = 1
	}
	results := make([]Result, len(cases))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, c := range cases {
		i, c := i, c
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			pos, err := board.ParseFEN(c.FEN)
			if err != nil {
				return fmt.Errorf("perft: case %s: %w", c.Name, err)
			}
			start := time.Now()
			got := Count[board.Move](pos, c.Depth)
			results[i] = Result{Case: c, Got: got, Elapsed: time.Since(start)}
			if got != c.Nodes {
				return fmt.Errorf("%w: %v: got %d, want %d", ErrMismatch, c, got, c.Nodes)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
