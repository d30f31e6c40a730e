package miner

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Search runs one parameter set against a fixed pool of workers. It can be Run more than
// once, but not concurrently.
type Search struct {
	params Params
	logger *zap.Logger

	progressOut      io.Writer
	progressInterval time.Duration

	newDigester func() (Digester, error)
}

// Option configures a Search
type Option func(*Search)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Search) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithProgress renders a progress bar to w every interval while the search runs
func WithProgress(w io.Writer, interval time.Duration) Option {
	return func(s *Search) {
		s.progressOut = w
		s.progressInterval = interval
	}
}

// NewSearch validates params and returns a ready Search
func NewSearch(params Params, opts ...Option) (*Search, error) {
	params = params.withDefaults()
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid search parameters: %w", err)
	}

	s := &Search{
		params: params,
		logger: zap.NewNop(),
	}
	s.newDigester = func() (Digester, error) {
		return NewDigester(s.params.Algorithm)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Params returns the validated parameters, defaults applied
func (s *Search) Params() Params {
	return s.params
}

// maxPrealloc caps capacity derived from Target
const maxPrealloc = 1024

// resultBuffer sizes the solution channel. The collector drains it until close, so the size
// only bounds how far workers can run ahead of the collector.
func resultBuffer(p Params) int {
	return min(p.Target, maxPrealloc) + 4*p.Workers
}

// Run searches until Target solutions are found or the range is exhausted, joins every
// worker and returns the report.
//
// If ctx is cancelled before the run completes the workers are stopped cooperatively and
// the partial report is returned together with an error wrapping ctx.Err(). A worker panic fails the run with no
// report.
func (s *Search) Run(ctx context.Context) (*Report, error) {
	p := s.params

	// Build every worker before starting any, so setup errors spawn nothing
	queue := NewWorkQueue(p.Start, p.End, p.ChunkSize)
	state := &sharedState{}
	results := make(chan Solution, resultBuffer(p))

	workers := make([]*worker, p.Workers)
	for i := range workers {
		d, err := s.newDigester()
		if err != nil {
			return nil, fmt.Errorf("failed to create digester for worker %d: %w", i, err)
		}
		workers[i] = newWorker(i, p, queue, state, results, d, s.logger)
	}

	s.logger.Info("Starting search",
		zap.String("prefix", p.Prefix),
		zap.String("algorithm", p.Algorithm),
		zap.Int("difficulty", p.Difficulty),
		zap.Int("target", p.Target),
		zap.Uint64("start", p.Start),
		zap.Uint64("end", p.End),
		zap.Int("workers", p.Workers),
		zap.Uint64("chunk_size", p.ChunkSize),
		zap.Uint64("chunks", queue.Len()),
	)

	startTime := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	for _, w := range workers {
		g.Go(w.run)
	}

	// gctx ends on cancellation, on the first worker error, or once Wait returns.
	// Either way raising the flag is correct.
	go func() {
		<-gctx.Done()
		state.stop.Store(true)
	}()

	// Closing results after the join is the "no senders remain" signal the collector
	// uses to tell exhaustion from early termination.
	var runErr error
	go func() {
		runErr = g.Wait()
		close(results)
	}()

	var bar *progress
	if s.progressOut != nil {
		bar = startProgress(s.progressOut, s.progressInterval, p.RangeSize(), &state.hashes)
	}

	solutions := make([]Solution, 0, min(p.Target, maxPrealloc))
	for sol := range results {
		solutions = append(solutions, sol)
		if len(solutions) == p.Target {
			state.stop.Store(true)
			s.logger.Info("Target reached, stopping workers",
				zap.Int("target", p.Target),
				zap.Duration("elapsed", time.Since(startTime)),
			)
		}
	}
	elapsed := time.Since(startTime)

	if bar != nil {
		bar.stop()
	}

	// results is closed only after g.Wait returned, so runErr is safe to read
	if runErr != nil {
		s.logger.Error("Search failed", zap.Error(runErr))
		return nil, runErr
	}

	report := newReport(p, solutions, state.hashes.Load(), elapsed)

	// With no worker error, only cancellation stops workers short of both the target and
	// the end of the range. A cancel that lands after a complete run is ignored.
	complete := len(report.Solutions) == p.Target || report.Hashes == p.RangeSize()
	if err := ctx.Err(); err != nil && !complete {
		report.Interrupted = true
		s.logger.Warn("Search interrupted",
			zap.Uint64("hashes", report.Hashes),
			zap.Int("solutions", len(report.Solutions)),
		)
		return report, fmt.Errorf("search interrupted: %w", err)
	}

	s.logger.Info("Search finished",
		zap.Uint64("hashes", report.Hashes),
		zap.Duration("elapsed", report.Elapsed),
		zap.Float64("hashrate", report.HashRate),
		zap.Int("solutions", len(report.Solutions)),
		zap.Int("shortfall", report.Shortfall),
	)
	return report, nil
}
