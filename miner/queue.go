package miner

import "sync"

// WorkQueue is the single shared queue of nonce chunks. Workers pull from the front.
//
// Chunks are cut from a cursor on withdrawal, so the queue costs the same for any range size.
// Smaller chunks balance load better and waste less work after a stop, at the cost of more
// lock traffic. Larger chunks do the opposite.
type WorkQueue struct {
	mu        sync.Mutex
	next      uint64
	end       uint64
	chunkSize uint64
	poisoned  bool
}

// NewWorkQueue partitions [start, end) into chunks of chunkSize in ascending order.
// The last chunk may be shorter. A zero chunkSize or an empty range yields an empty queue.
func NewWorkQueue(start, end, chunkSize uint64) *WorkQueue {
	if chunkSize == 0 || start >= end {
		return &WorkQueue{}
	}
	return &WorkQueue{next: start, end: end, chunkSize: chunkSize}
}

// Withdraw removes and returns the front chunk. ok is false when the queue is empty.
// The lock covers only the pop.
func (q *WorkQueue) Withdraw() (c Chunk, ok bool, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.poisoned {
		return Chunk{}, false, ErrQueuePoisoned
	}
	if q.next >= q.end {
		return Chunk{}, false, nil
	}

	c = Chunk{Start: q.next, Length: min(q.end-q.next, q.chunkSize)}
	q.next += c.Length
	return c, true, nil
}

// Poison makes every later Withdraw fail with ErrQueuePoisoned
func (q *WorkQueue) Poison() {
	q.mu.Lock()
	q.poisoned = true
	q.mu.Unlock()
}

// Len returns the number of chunks not yet withdrawn
func (q *WorkQueue) Len() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.next >= q.end {
		return 0
	}
	rest := q.end - q.next
	n := rest / q.chunkSize
	if rest%q.chunkSize != 0 {
		n++
	}
	return n
}

// Remaining returns the number of nonces in chunks not yet withdrawn
func (q *WorkQueue) Remaining() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.next >= q.end {
		return 0
	}
	return q.end - q.next
}
