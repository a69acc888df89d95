package csync

import "sync"

// anyReady is an edge-triggered condition shared by every case armed in a
// single call to [Select]. Each armed case's ready callback calls Set when
// its Handoff reaches the Ready phase; Select blocks on Ready until the
// first of them fires, then scans every armed case to see which are
// actually ready.
//
// A zero anyReady is inactive and ready for use, but must not be copied
// after any of its methods have been called.
type anyReady struct {
	μ      sync.Mutex
	ch     chan struct{}
	closed bool
}

// Set activates the trigger. If the trigger was already active, it has no
// effect. Set is safe to call from multiple goroutines, including several
// select cases racing to be the first ready.
func (t *anyReady) Set() {
	t.μ.Lock()
	defer t.μ.Unlock()

	if t.ch == nil {
		t.ch = make(chan struct{})
		close(t.ch)
	} else if !t.closed {
		close(t.ch)
	}
	t.closed = true
}

// Ready returns a channel that is closed once Set has been called. If Set
// was already called when Ready is called, the returned channel is already
// closed.
func (t *anyReady) Ready() <-chan struct{} {
	t.μ.Lock()
	defer t.μ.Unlock()

	if t.ch == nil {
		t.ch = make(chan struct{})
		t.closed = false
	}
	return t.ch
}
