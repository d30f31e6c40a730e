package miner

import (
	"encoding/hex"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
)

// sharedState is the lock-free coordination state of one run
type sharedState struct {
	// stop only ever goes from false to true
	stop atomic.Bool
	// hashes is the exact number of nonces digested once every worker has flushed
	hashes atomic.Uint64
}

// worker pulls chunks from the queue until it is empty or the stop flag is raised.
//
// States: Fetching -> Hashing -> (Fetching | Terminated). Hashing cannot fail, so there is no
// retry state.
type worker struct {
	id            int
	prefix        string
	difficulty    int
	checkInterval int

	queue    *WorkQueue
	state    *sharedState
	results  chan<- Solution
	digester Digester
	batch    BatchDigester
	logger   *zap.Logger

	// Reused buffers, never shared
	candidate []byte
	sum       []byte
	lanes     [4][]byte
	sums      [4][32]byte

	// pending is hashed but not yet added to state.hashes
	pending    uint64
	sinceCheck int

	chunks int
	hashed uint64
	found  int
}

func newWorker(id int, p Params, queue *WorkQueue, state *sharedState, results chan<- Solution, d Digester, logger *zap.Logger) *worker {
	w := &worker{
		id:            id,
		prefix:        p.Prefix,
		difficulty:    p.Difficulty,
		checkInterval: p.CheckInterval,
		queue:         queue,
		state:         state,
		results:       results,
		digester:      d,
		logger:        logger,
		sum:           make([]byte, 0, d.Size()),
	}
	if bd, ok := d.(BatchDigester); ok {
		w.batch = bd
	}
	return w
}

// run executes the worker loop. A panic poisons the queue, raises the stop flag and is
// returned as ErrWorkerPanic.
func (w *worker) run() (err error) {
	defer func() {
		if r := recover(); r != nil {
			w.queue.Poison()
			w.state.stop.Store(true)
			err = fmt.Errorf("%w: worker %d: %v", ErrWorkerPanic, w.id, r)
			w.logger.Error("Worker panicked", zap.Int("worker", w.id), zap.Any("panic", r))
		}
	}()

	reason := w.loop()
	w.logger.Debug("Worker terminated",
		zap.Int("worker", w.id),
		zap.String("reason", reason),
		zap.Int("chunks", w.chunks),
		zap.Uint64("hashes", w.hashed),
		zap.Int("solutions", w.found),
	)
	return nil
}

// loop returns why the worker terminated
func (w *worker) loop() string {
	for {
		if w.state.stop.Load() {
			return "stopped"
		}

		c, ok, err := w.queue.Withdraw()
		if err != nil {
			// Another worker died; the run is already failing.
			return err.Error()
		}
		if !ok {
			return "queue empty"
		}
		w.chunks++

		if !w.hashChunk(c) {
			return "stopped mid-chunk"
		}
	}
}

// hashChunk digests every nonce of c in ascending order. It returns false if the stop flag
// was observed before the chunk was finished.
func (w *worker) hashChunk(c Chunk) bool {
	defer w.flush()

	nonce, end := c.Start, c.End()
	if w.batch != nil {
		var ok bool
		if nonce, ok = w.hashBatches(nonce, end); !ok {
			return false
		}
	}
	return w.hashRange(nonce, end)
}

// hashRange digests [nonce, end) one nonce at a time
func (w *worker) hashRange(nonce, end uint64) bool {
	for ; nonce < end; nonce++ {
		if w.shouldStop() {
			return false
		}

		w.candidate = AppendCandidate(w.candidate[:0], w.prefix, nonce)
		w.sum = w.digester.Sum(w.sum[:0], w.candidate)
		w.count(1)

		if meetsDifficultyRaw(w.sum, w.difficulty) {
			w.emit(nonce, w.sum)
		}
	}
	return true
}

// hashBatches digests groups of four nonces and returns the first nonce it did not cover
func (w *worker) hashBatches(nonce, end uint64) (uint64, bool) {
	for end-nonce >= 4 {
		if w.shouldStop() {
			return nonce, false
		}

		for i := range w.lanes {
			w.lanes[i] = AppendCandidate(w.lanes[i][:0], w.prefix, nonce+uint64(i))
		}
		w.batch.SumX4(&w.lanes, &w.sums)
		w.count(4)

		for i := range w.sums {
			if meetsDifficultyRaw(w.sums[i][:], w.difficulty) {
				w.emit(nonce+uint64(i), w.sums[i][:])
			}
		}
		nonce += 4
	}
	return nonce, true
}

// shouldStop polls the stop flag once every checkInterval hashes, flushing the local count
// at the same time
func (w *worker) shouldStop() bool {
	if w.sinceCheck < w.checkInterval {
		return false
	}
	w.sinceCheck = 0
	w.flush()
	return w.state.stop.Load()
}

func (w *worker) count(n int) {
	w.pending += uint64(n)
	w.hashed += uint64(n)
	w.sinceCheck += n
}

// flush adds the local hash count to the shared counter
func (w *worker) flush() {
	if w.pending == 0 {
		return
	}
	w.state.hashes.Add(w.pending)
	w.pending = 0
}

// emit reports a solution. The collector drains the channel until every worker is gone,
// so the send cannot block forever.
func (w *worker) emit(nonce uint64, sum []byte) {
	digest := hex.EncodeToString(sum)
	if !MeetsDifficulty(digest, w.difficulty) {
		panic(fmt.Sprintf("raw and hex difficulty checks disagree for nonce %d", nonce))
	}
	w.found++
	w.results <- Solution{Nonce: nonce, Digest: digest}
}
