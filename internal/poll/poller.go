// Package poll provides the interval fetch-and-replace primitive every
// console panel is built on: fetch a full snapshot, hand it to an apply
// callback wholesale, keep the previous state on failure and never stop
// ticking. The event runs for hours and connectivity blips are expected
// to self-heal, so there is no circuit breaker.
package poll

import (
	"context"
	"log"
	"sync"
	"time"
)

// Poller periodically invokes fetch and applies the result. Ticks do not
// wait for the previous fetch, so overlapping in-flight requests against
// the same endpoint are possible; every tick carries a monotonic sequence
// and a late response older than the last applied one is discarded.
type Poller[T any] struct {
	name     string
	fetch    func(ctx context.Context) (T, error)
	interval time.Duration
	apply    func(T)
	onError  func(error)

	kick chan struct{}

	mu          sync.Mutex
	nextSeq     uint64
	lastApplied uint64
	started     bool
	stopped     bool
	cancel      context.CancelFunc
}

// New creates a poller. apply is called with each fresh snapshot; onError
// may be nil, in which case failures are only logged.
func New[T any](name string, fetch func(ctx context.Context) (T, error), interval time.Duration, apply func(T), onError func(error)) *Poller[T] {
	return &Poller[T]{
		name:     name,
		fetch:    fetch,
		interval: interval,
		apply:    apply,
		onError:  onError,
		kick:     make(chan struct{}, 1),
	}
}

// Start launches the polling loop. The first fetch happens immediately.
// Calling Start again is a no-op; one poller owns exactly one loop.
func (p *Poller[T]) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	p.mu.Lock()
	if p.started || p.stopped {
		p.mu.Unlock()
		cancel()
		return
	}
	p.started = true
	p.cancel = cancel
	p.mu.Unlock()

	go p.run(ctx)
}

func (p *Poller[T]) run(ctx context.Context) {
	p.tick(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		case <-p.kick:
			p.tick(ctx)
		}
	}
}

// tick issues one fetch without blocking the loop.
func (p *Poller[T]) tick(ctx context.Context) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.nextSeq++
	seq := p.nextSeq
	p.mu.Unlock()

	go func() {
		result, err := p.fetch(ctx)
		if err != nil {
			// Retain the previous state; the next tick retries.
			if p.onError != nil {
				p.onError(err)
			} else {
				log.Printf("%s poll failed: %v", p.name, err)
			}
			return
		}
		p.deliver(seq, result)
	}()
}

func (p *Poller[T]) deliver(seq uint64, result T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	// A result must never land after Stop, and an out-of-order late
	// response must not overwrite a newer snapshot.
	if p.stopped || seq <= p.lastApplied {
		return
	}
	p.lastApplied = seq
	p.apply(result)
}

// Kick requests an immediate out-of-band tick, used after a mutating
// action to refresh the panel without waiting for the next interval.
func (p *Poller[T]) Kick() {
	select {
	case p.kick <- struct{}{}:
	default:
	}
}

// Stop cancels the loop. It is idempotent and safe to call before Start;
// results from still in-flight fetches are discarded.
func (p *Poller[T]) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	p.stopped = true
	if p.cancel != nil {
		p.cancel()
	}
}
