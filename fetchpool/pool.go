// Package fetchpool implements the shared background task pool that
// consumes metadata-fetch work items emitted by the fetch dispatcher
// (C5). The resolver core never blocks on an individual fetch; it only
// enqueues onto the bounded channel this package owns.
package fetchpool

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"

	"github.com/nathanjmcdougall/uv/distindex"
)

// Handler does the actual metadata fetch for one request, populating the
// shared index so that a later wait_blocking-style lookup resolves
// immediately. The pool discards returned errors (a handler that wants
// them recorded logs them itself); they never propagate to the resolver,
// since prefetch failures are never load-bearing.
type Handler func(ctx context.Context, req distindex.Request) error

// Pool is a bounded multi-producer single-consumer queue of fetch
// requests, drained by a fixed number of concurrently running workers.
// capacity bounds the queue (memory), concurrency bounds how many
// handlers run at once (I/O amplification).
type Pool struct {
	requests chan distindex.Request
	sem      *semaphore.Weighted
	handle   Handler

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// New starts a Pool with the given queue capacity and worker
// concurrency, running handle for every submitted request until Close is
// called.
func New(ctx context.Context, queueCapacity int, concurrency int64, handle Handler) *Pool {
	ctx, cancel := context.WithCancel(ctx)

	p := &Pool{
		requests: make(chan distindex.Request, queueCapacity),
		sem:      semaphore.NewWeighted(concurrency),
		handle:   handle,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	go p.run()
	return p
}

func (p *Pool) run() {
	defer close(p.done)

	for {
		select {
		case <-p.ctx.Done():
			return
		case req, ok := <-p.requests:
			if !ok {
				return
			}
			if err := p.sem.Acquire(p.ctx, 1); err != nil {
				return
			}
			go func() {
				defer p.sem.Release(1)
				if err := p.handle(p.ctx, req); err != nil {
					// Prefetch is a hint; a failed speculative fetch is
					// logged by the handler itself and otherwise
					// discarded, per the cancellation/failure semantics
					// in section 5 and 7.
					_ = err
				}
			}()
		}
	}
}

// Submit implements distindex.Submitter: it blocks if the queue is full
// (blocking_send is acceptable, section 5) and returns ErrClosed if the
// pool has already been shut down or the context was canceled.
func (p *Pool) Submit(req distindex.Request) error {
	if p.ctx.Err() != nil {
		return fmt.Errorf("fetchpool: %w", ErrClosed)
	}
	select {
	case p.requests <- req:
		return nil
	case <-p.ctx.Done():
		return fmt.Errorf("fetchpool: %w", ErrClosed)
	}
}

// ErrClosed is returned by Submit once the pool has been shut down.
var ErrClosed = fmt.Errorf("pool closed")

// Close stops accepting new work and cancels in-flight fetches. Per
// section 5, in-flight prefetches are abandoned on resolver termination;
// there is no user-visible cancellation surface beyond this.
func (p *Pool) Close() {
	p.cancel()
	<-p.done
}
