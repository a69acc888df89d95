package csync

import (
	"fmt"
	"sync"
)

// A Phase is a snapshot of a [Handoff]'s progress toward rendezvous.
type Phase int

const (
	// Empty means neither party has arrived yet.
	Empty Phase = iota
	// ReaderPresent means a receiver arrived first and is waiting for a sender.
	ReaderPresent
	// ValuePresent means a sender arrived first and is waiting for a receiver.
	ValuePresent
	// Ready means both parties have arrived; the handoff can be committed or
	// cancelled.
	Ready
	// Done is terminal: the handoff has been committed or cancelled.
	Done
)

func (p Phase) String() string {
	switch p {
	case Empty:
		return "Empty"
	case ReaderPresent:
		return "ReaderPresent"
	case ValuePresent:
		return "ValuePresent"
	case Ready:
		return "Ready"
	case Done:
		return "Done"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// An Outcome reports how a [Handoff] was resolved.
type Outcome int

const (
	// Cancelled means the handoff was aborted before a value crossed.
	Cancelled Outcome = iota
	// Completed means a value was successfully handed off.
	Completed
)

func (o Outcome) String() string {
	if o == Completed {
		return "Completed"
	}
	return "Cancelled"
}

// A Handoff is a one-shot two-party rendezvous for a single value of type
// V. One goroutine plays the sender by calling AsSender, another plays the
// receiver by calling AsReceiver; the value crosses from sender to receiver
// only if the handoff is committed with Proceed before it is cancelled.
//
// Each of AsSender and AsReceiver must be called at most once on a given
// Handoff; calling either of them a second time is a programming error and
// panics. Calling both from the same goroutine deadlocks, because the first
// call blocks until the handoff is Done; this misuse is not detected.
//
// A Handoff is normally obtained from a [Channel]'s waiter queues rather
// than constructed directly, but NewHandoff is exported so that
// [Select]-like coordinators outside this package can build on the same
// primitive.
type Handoff[V any] struct {
	spawn func(func())
	done  chan struct{}

	mu      sync.Mutex
	phase   Phase
	value   V
	outcome Outcome
	onReady func()

	senderPlayed   bool
	receiverPlayed bool
}

// NewHandoff constructs a new empty Handoff. If spawn is nil, [Go] is used:
// the handoff's default ready callback commits the handoff (calls Proceed)
// on a freshly spawned goroutine as soon as both parties have arrived. This
// default is what makes a Handoff obtained from a plain [Channel.Send] or
// [Channel.Recv] call complete on its own; [Select] replaces it via OnReady
// so that readiness becomes a signal instead of an automatic commit.
func NewHandoff[V any](spawn func(func())) *Handoff[V] {
	if spawn == nil {
		spawn = Go
	}
	h := &Handoff[V]{spawn: spawn, done: make(chan struct{})}
	h.onReady = func() { h.spawn(func() { h.Proceed() }) }
	return h
}

// AsSender plays the sender's side of the handoff: it supplies v, then
// blocks until the handoff reaches Done. It returns Completed if v was
// delivered to a receiver, or Cancelled if the handoff was aborted first.
func (h *Handoff[V]) AsSender(v V) Outcome {
	h.arriveAsSender(v)
	return h.wait()
}

// AsReceiver plays the receiver's side of the handoff: it blocks until the
// handoff reaches Done, then returns the delivered value and Completed, or
// a zero value and Cancelled if the handoff was aborted first.
func (h *Handoff[V]) AsReceiver() (V, Outcome) {
	h.arriveAsReceiver()
	o := h.wait()
	if o != Completed {
		var zero V
		return zero, o
	}
	h.mu.Lock()
	v := h.value
	h.mu.Unlock()
	return v, o
}

func (h *Handoff[V]) arriveAsSender(v V) {
	h.mu.Lock()
	if h.senderPlayed {
		h.mu.Unlock()
		panic("csync: Handoff.AsSender called more than once")
	}
	h.senderPlayed = true
	switch h.phase {
	case Empty:
		h.value = v
		h.phase = ValuePresent
		h.mu.Unlock()
	case ReaderPresent:
		h.value = v
		h.enterReadyLocked()
	case Done:
		// A concurrent select armed and then abandoned this handoff before we
		// got here; there is nothing left to pair with.
		h.mu.Unlock()
	default:
		p := h.phase
		h.mu.Unlock()
		panic("csync: Handoff.AsSender arrived while in phase " + p.String())
	}
}

func (h *Handoff[V]) arriveAsReceiver() {
	h.mu.Lock()
	if h.receiverPlayed {
		h.mu.Unlock()
		panic("csync: Handoff.AsReceiver called more than once")
	}
	h.receiverPlayed = true
	switch h.phase {
	case Empty:
		h.phase = ReaderPresent
		h.mu.Unlock()
	case ValuePresent:
		h.enterReadyLocked()
	case Done:
		h.mu.Unlock()
	default:
		p := h.phase
		h.mu.Unlock()
		panic("csync: Handoff.AsReceiver arrived while in phase " + p.String())
	}
}

// enterReadyLocked transitions the handoff to Ready and fires the current
// ready callback. It must be called with h.mu held, and unlocks it before
// returning.
func (h *Handoff[V]) enterReadyLocked() {
	h.phase = Ready
	cb := h.onReady
	h.mu.Unlock()
	if cb != nil {
		cb()
	}
}

func (h *Handoff[V]) wait() Outcome {
	<-h.done
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.outcome
}

// Proceed attempts to commit the handoff: if its phase is Ready, it
// transitions to Done(Completed) and releases both parked parties;
// otherwise it transitions to Done(Cancelled). Proceed is idempotent: once
// the handoff is Done, later calls just return the already-decided outcome.
func (h *Handoff[V]) Proceed() Outcome {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.phase == Done {
		return h.outcome
	}
	if h.phase == Ready {
		h.outcome = Completed
	} else {
		h.outcome = Cancelled
	}
	h.phase = Done
	close(h.done)
	return h.outcome
}

// Cancel forces the handoff to Done(Cancelled), unless it is already Done.
// Cancel is idempotent and always safe to call, including from a goroutine
// other than the ones playing sender or receiver.
func (h *Handoff[V]) Cancel() Outcome {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.phase == Done {
		return h.outcome
	}
	h.outcome = Cancelled
	h.phase = Done
	close(h.done)
	return h.outcome
}

// IsReady reports whether the handoff's phase is Ready or Done.
func (h *Handoff[V]) IsReady() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.phase == Ready || h.phase == Done
}

// Result returns the value and outcome recorded for the handoff. It is only
// meaningful once the handoff has reached Done; called earlier it returns
// the zero value and Cancelled.
func (h *Handoff[V]) Result() (V, Outcome) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.phase != Done {
		var zero V
		return zero, Cancelled
	}
	return h.value, h.outcome
}

// OnReady installs cb as the callback invoked the first time the handoff's
// phase becomes Ready, replacing any callback installed earlier (including
// the default auto-commit callback installed by NewHandoff). If the handoff
// is already Ready (or Done) when OnReady is called, cb is scheduled
// promptly via the handoff's spawn function; it is never invoked inline
// under the handoff's mutex.
func (h *Handoff[V]) OnReady(cb func()) {
	h.mu.Lock()
	wrapped := func() { h.spawn(cb) }
	h.onReady = wrapped
	already := h.phase == Ready || h.phase == Done
	h.mu.Unlock()
	if already {
		wrapped()
	}
}
