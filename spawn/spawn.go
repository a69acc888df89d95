// Package spawn provides task-spawning helpers for use as the spawn
// function accepted by [github.com/creachadair/csync.NewChannelSpawn] and
// [github.com/creachadair/csync.NewHandoff].
//
// The csync core never embeds a scheduler: it assumes only that the caller
// can supply a func(func()) that runs a short function on some worker,
// without ordering guarantees relative to the caller (see the package doc
// for csync). This package supplies two implementations of that
// assumption: Go, a bare goroutine per call, and Pool, a fixed-size worker
// pool for callers who want to bound how much concurrency a busy channel
// can create.
package spawn

import "sync"

// Go starts f on a new goroutine and returns immediately. It is equivalent
// to csync.Go, duplicated here so this package has no dependency on csync.
func Go(f func()) { go f() }

// A Pool runs submitted functions on a bounded number of goroutines. A Pool
// must not be copied after first use.
//
// Unlike the core rendezvous primitives, a Pool's own goroutines are a
// scarce resource: submitting a function that itself blocks on a
// [github.com/creachadair/csync.Channel] rendezvous can stall the pool if every worker is doing the
// same thing. Pool is meant for capping fan-out of short commit callbacks,
// not for running the goroutines that call Send or Recv themselves.
type Pool struct {
	sem chan struct{}
	wg  sync.WaitGroup
}

// NewPool constructs a Pool that runs at most n functions concurrently. A
// non-positive n is treated as 1.
func NewPool(n int) *Pool {
	if n <= 0 {
		n = 1
	}
	return &Pool{sem: make(chan struct{}, n)}
}

// Go submits f to run on the pool. It blocks only long enough to acquire a
// slot if the pool is currently at capacity; f itself always runs
// asynchronously on a separate goroutine.
func (p *Pool) Go(f func()) {
	p.wg.Add(1)
	p.sem <- struct{}{}
	go func() {
		defer p.wg.Done()
		defer func() { <-p.sem }()
		f()
	}()
}

// Wait blocks until every function submitted to the pool so far has
// returned.
func (p *Pool) Wait() { p.wg.Wait() }
