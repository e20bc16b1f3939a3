// Package sync is the ledger-sync delta pipeline (C5): it maintains a
// long-lived subscription to the platform's block-commit/state-delta
// feed and serializes block application through a single-writer FIFO
// queue, so the read store (C6) never observes two blocks applied
// concurrently.
package sync

import "context"

// Job is one unit of serialized work: applying everything one
// committed block produced.
type Job func(ctx context.Context) error

// Queue is a bounded channel drained by exactly one worker goroutine —
// the single-writer pattern the pipeline relies on for ordering.
type Queue struct {
	jobs   chan Job
	done   chan struct{}
	errors chan error
}

// NewQueue starts the worker goroutine and returns a Queue with the
// given backlog capacity.
func NewQueue(ctx context.Context, capacity int, onError func(error)) *Queue {
	q := &Queue{
		jobs: make(chan Job, capacity),
		done: make(chan struct{}),
	}
	go q.run(ctx, onError)
	return q
}

func (q *Queue) run(ctx context.Context, onError func(error)) {
	defer close(q.done)
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-q.jobs:
			if !ok {
				return
			}
			if err := job(ctx); err != nil && onError != nil {
				onError(err)
			}
		}
	}
}

// Enqueue blocks if the backlog is full, applying backpressure to the
// subscription's delivery loop rather than buffering unboundedly.
func (q *Queue) Enqueue(ctx context.Context, job Job) error {
	select {
	case q.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting new jobs. It does not wait for the worker to
// drain — callers that need that should select on Done after Close.
func (q *Queue) Close() { close(q.jobs) }

// Done reports when the worker goroutine has exited.
func (q *Queue) Done() <-chan struct{} { return q.done }
