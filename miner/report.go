package miner

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"
)

// Report is the outcome of one run. It is built only after every worker has been joined.
type Report struct {
	Params   Params
	Hashes   uint64
	Elapsed  time.Duration
	HashRate float64
	// Solutions is ascending by nonce and holds at most Params.Target entries.
	Solutions []Solution
	// Shortfall is how many solutions are missing from Params.Target.
	Shortfall int
	// Interrupted is set when the run was cancelled from outside.
	Interrupted bool
}

// SortSolutions orders solutions by ascending nonce and keeps the first k. The result does not
// depend on the input order. The input slice is reordered in place.
func SortSolutions(solutions []Solution, k int) []Solution {
	slices.SortFunc(solutions, func(a, b Solution) int {
		return cmp.Compare(a.Nonce, b.Nonce)
	})
	if k >= 0 && len(solutions) > k {
		solutions = solutions[:k]
	}
	return solutions
}

// HashRate returns hashes per second, or 0 when no time has elapsed
func HashRate(hashes uint64, elapsed time.Duration) float64 {
	secs := elapsed.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(hashes) / secs
}

func newReport(p Params, solutions []Solution, hashes uint64, elapsed time.Duration) *Report {
	solutions = SortSolutions(solutions, p.Target)
	return &Report{
		Params:    p,
		Hashes:    hashes,
		Elapsed:   elapsed,
		HashRate:  HashRate(hashes, elapsed),
		Solutions: solutions,
		Shortfall: max(p.Target-len(solutions), 0),
	}
}

// WriteText writes the human-readable report
func (r *Report) WriteText(w io.Writer) error {
	p := r.Params
	lines := []string{
		fmt.Sprintf("prefix=%s threads=%d difficulty=%d target=%d algo=%s range=[%d,%d)",
			p.Prefix, p.Workers, p.Difficulty, p.Target, p.Algorithm, p.Start, p.End),
		fmt.Sprintf("chunk_size=%d hashes=%d time_ms=%d hashrate=%.0f/s",
			p.ChunkSize, r.Hashes, r.Elapsed.Milliseconds(), r.HashRate),
		"solutions:",
	}
	for _, s := range r.Solutions {
		lines = append(lines, fmt.Sprintf("nonce=%d hash=%s", s.Nonce, s.Digest))
	}
	if r.Interrupted {
		lines = append(lines, "INTERRUPTED: search was cancelled before completion.")
	}
	// The range advice only holds when the whole range was searched
	if r.Shortfall > 0 && !r.Interrupted {
		lines = append(lines, fmt.Sprintf(
			"WARNING: only got %d solutions (%d short of %d); lower difficulty or increase end range.",
			len(r.Solutions), r.Shortfall, p.Target))
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

type jsonReport struct {
	Prefix      string     `json:"prefix"`
	Algorithm   string     `json:"algorithm"`
	Difficulty  int        `json:"difficulty"`
	Target      int        `json:"target"`
	Start       uint64     `json:"start"`
	End         uint64     `json:"end"`
	Workers     int        `json:"workers"`
	ChunkSize   uint64     `json:"chunk_size"`
	Hashes      uint64     `json:"hashes"`
	ElapsedMS   int64      `json:"time_ms"`
	HashRate    float64    `json:"hashrate"`
	Solutions   []Solution `json:"solutions"`
	Shortfall   int        `json:"shortfall,omitempty"`
	Interrupted bool       `json:"interrupted,omitempty"`
}

// WriteJSON writes the report as a single indented JSON object
func (r *Report) WriteJSON(w io.Writer) error {
	p := r.Params
	out := jsonReport{
		Prefix:      p.Prefix,
		Algorithm:   p.Algorithm,
		Difficulty:  p.Difficulty,
		Target:      p.Target,
		Start:       p.Start,
		End:         p.End,
		Workers:     p.Workers,
		ChunkSize:   p.ChunkSize,
		Hashes:      r.Hashes,
		ElapsedMS:   r.Elapsed.Milliseconds(),
		HashRate:    r.HashRate,
		Solutions:   r.Solutions,
		Shortfall:   r.Shortfall,
		Interrupted: r.Interrupted,
	}
	if out.Solutions == nil {
		out.Solutions = []Solution{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
