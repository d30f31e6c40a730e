// Package miner provides a parallel proof-of-work nonce search driven by a shared chunk queue.
package miner

import (
	"fmt"
	"runtime"
)

const (
	// DefaultCheckInterval is how many nonces a worker hashes between stop-flag polls.
	DefaultCheckInterval = 1024

	// DefaultAlgorithm matches the digest used by the reference toy PoW.
	DefaultAlgorithm = "sha256"

	// candidateSeparator joins the prefix and the decimal nonce.
	candidateSeparator = ':'
)

// Chunk is the half-open nonce range [Start, Start+Length)
type Chunk struct {
	Start  uint64
	Length uint64
}

// End returns the exclusive upper bound of the chunk, saturating at the top of uint64
func (c Chunk) End() uint64 {
	end := c.Start + c.Length
	if end < c.Start {
		return ^uint64(0)
	}
	return end
}

// Solution records a nonce whose digest met the difficulty
type Solution struct {
	Nonce  uint64 `json:"nonce"`
	Digest string `json:"digest"`
}

// Params holds the caller-supplied configuration of one search run
type Params struct {
	Prefix     string
	Difficulty int
	// Target is the number of solutions (k) after which the run stops.
	Target int

	// Start and End bound the search space [Start, End).
	Start uint64
	End   uint64

	Workers   int
	ChunkSize uint64

	// Algorithm selects the digest oracle; empty means DefaultAlgorithm.
	Algorithm string
	// CheckInterval is the stop-flag polling interval in nonces; 0 means DefaultCheckInterval.
	CheckInterval int
}

// DefaultParams returns the parameters of the reference run
func DefaultParams() Params {
	return Params{
		Prefix:        "cmkl-pow",
		Difficulty:    6,
		Target:        10,
		Start:         0,
		End:           50_000_000_000,
		Workers:       8,
		ChunkSize:     50_000,
		Algorithm:     DefaultAlgorithm,
		CheckInterval: DefaultCheckInterval,
	}
}

// withDefaults fills the optional fields
func (p Params) withDefaults() Params {
	if p.Algorithm == "" {
		p.Algorithm = DefaultAlgorithm
	}
	if p.CheckInterval == 0 {
		p.CheckInterval = DefaultCheckInterval
	}
	return p
}

// Validate rejects configurations that cannot be run. It is called before any worker starts.
func (p Params) Validate() error {
	p = p.withDefaults()
	switch {
	case p.Workers < 1:
		return fmt.Errorf("%w: got %d", ErrNoWorkers, p.Workers)
	case p.ChunkSize == 0:
		return ErrZeroChunkSize
	case p.Start >= p.End:
		return fmt.Errorf("%w: [%d, %d)", ErrEmptyRange, p.Start, p.End)
	case p.Target < 1:
		return fmt.Errorf("%w: got %d", ErrZeroTarget, p.Target)
	case p.Difficulty < 0:
		return fmt.Errorf("%w: got %d", ErrNegativeDifficulty, p.Difficulty)
	case p.CheckInterval < 1:
		return fmt.Errorf("%w: got %d", ErrBadCheckInterval, p.CheckInterval)
	}
	if !KnownAlgorithm(p.Algorithm) {
		return fmt.Errorf("%w: %q", ErrUnknownAlgorithm, p.Algorithm)
	}
	return nil
}

// RangeSize returns the number of nonces in [Start, End)
func (p Params) RangeSize() uint64 {
	if p.End <= p.Start {
		return 0
	}
	return p.End - p.Start
}

// DefaultWorkers returns the number of worker goroutines to use when none is configured
func DefaultWorkers() int {
	return runtime.NumCPU()
}
