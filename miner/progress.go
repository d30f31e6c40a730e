package miner

import (
	"io"
	"math"
	"sync/atomic"
	"time"

	"github.com/schollz/progressbar/v3"
)

const defaultProgressInterval = time.Second

// progress periodically renders the shared hash counter against the range size
type progress struct {
	bar    *progressbar.ProgressBar
	hashes *atomic.Uint64
	done   chan struct{}
	exited chan struct{}
}

func startProgress(w io.Writer, interval time.Duration, total uint64, hashes *atomic.Uint64) *progress {
	if interval <= 0 {
		interval = defaultProgressInterval
	}
	limit := int64(math.MaxInt64)
	if total < uint64(limit) {
		limit = int64(total)
	}

	p := &progress{
		bar: progressbar.NewOptions64(limit,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription("Searching..."),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("H"),
			progressbar.OptionThrottle(interval),
			progressbar.OptionClearOnFinish(),
		),
		hashes: hashes,
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	go p.loop(interval)
	return p
}

func (p *progress) loop(interval time.Duration) {
	defer close(p.exited)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-p.done:
			p.bar.Set64(int64(min(p.hashes.Load(), math.MaxInt64)))
			p.bar.Clear()
			return
		case <-ticker.C:
			p.bar.Set64(int64(min(p.hashes.Load(), math.MaxInt64)))
		}
	}
}

// stop clears the bar and waits for the render goroutine to exit
func (p *progress) stop() {
	close(p.done)
	<-p.exited
}
