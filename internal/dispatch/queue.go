// Package dispatch implements the single-threaded cooperative loop
// (spec.md §4.9): it drains an asynchronous command queue, runs every
// device's loop hook and the script engine on a coarse tick, and pumps
// non-blocking front-ends. The queue is the sole synchronization
// boundary between producer goroutines (HTTP/WebSocket/serial
// handlers) and the loop thread, mirroring the teacher's WebSocket hub
// locking discipline (lock held only to mutate the shared structure,
// never across a callback).
package dispatch

import "sync"

// pending is one queued command: the raw verb string plus a callback
// that receives the response string. The callback runs on the loop
// thread and must not block.
type pending struct {
	cmd     string
	respond func(string)
}

// Queue is the mutex-protected command inbox. Producers call Submit;
// only the loop thread calls drain.
type Queue struct {
	mu      sync.Mutex
	pending []pending
}

// NewQueue returns an empty command queue.
func NewQueue() *Queue { return &Queue{} }

// Submit enqueues a command and its response callback. Safe to call
// from any goroutine.
func (q *Queue) Submit(cmd string, respond func(string)) {
	q.mu.Lock()
	q.pending = append(q.pending, pending{cmd: cmd, respond: respond})
	q.mu.Unlock()
}

// popOne removes and returns the oldest pending command, or ok=false
// if the queue is empty. Held only long enough to mutate the slice.
func (q *Queue) popOne() (pending, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return pending{}, false
	}
	p := q.pending[0]
	q.pending = q.pending[1:]
	return p, true
}
