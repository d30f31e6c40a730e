package miner

import "errors"

// Configuration errors, returned by Params.Validate before any worker is spawned.
var (
	ErrNoWorkers          = errors.New("worker count must be at least 1")
	ErrZeroChunkSize      = errors.New("chunk size must be at least 1")
	ErrEmptyRange         = errors.New("search range is empty")
	ErrZeroTarget         = errors.New("target solution count must be at least 1")
	ErrNegativeDifficulty = errors.New("difficulty must not be negative")
	ErrBadCheckInterval   = errors.New("check interval must be at least 1")
	ErrUnknownAlgorithm   = errors.New("unknown digest algorithm")
)

// Run failures. Both are fatal; no report is produced.
var (
	// ErrQueuePoisoned is returned by WorkQueue.Withdraw after a worker died abnormally.
	ErrQueuePoisoned = errors.New("work queue poisoned")
	// ErrWorkerPanic wraps a panic recovered from a worker goroutine.
	ErrWorkerPanic = errors.New("worker panicked")
)
