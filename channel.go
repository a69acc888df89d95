package csync

import (
	"sync"

	"github.com/gammazero/deque"
)

// A Channel is an unbuffered, multi-producer/multi-consumer rendezvous
// point for values of type V. A Send on c completes only when paired with a
// Recv on c, and vice versa; there is no internal buffer and no notion of a
// closed channel.
//
// A Channel holds two FIFO waiter queues, waitingSenders and
// waitingReceivers, guarded by one mutex. At any instant at least one of
// the two queues is empty: a sender that finds a waiting receiver pairs
// with it immediately instead of queuing, and symmetrically for a
// receiver. The mutex is held only across queue manipulation; the actual
// rendezvous wait happens on a [Handoff] after the mutex has been released.
type Channel[V any] struct {
	spawn func(func())

	mu               sync.Mutex
	waitingSenders   deque.Deque[*Handoff[V]]
	waitingReceivers deque.Deque[*Handoff[V]]
}

// NewChannel constructs a new empty Channel whose blocked parties commit
// their own handoffs by spawning a bare goroutine (see [Go]) once both
// sides have arrived.
func NewChannel[V any]() *Channel[V] { return NewChannelSpawn[V](nil) }

// NewChannelSpawn constructs a new empty Channel that uses spawn to run the
// short function that commits a completed handoff. If spawn is nil, [Go] is
// used. Supplying a bounded spawn function (see the spawn subpackage) lets
// callers cap how many goroutines a busy channel can create to service
// pending rendezvous commits.
func NewChannelSpawn[V any](spawn func(func())) *Channel[V] {
	if spawn == nil {
		spawn = Go
	}
	return &Channel[V]{spawn: spawn}
}

// Send blocks until v has been delivered to some receiver on c.
func (c *Channel[V]) Send(v V) {
	for {
		h := c.obtainForSend()
		if h.AsSender(v) == Completed {
			return
		}
		// The handoff we played was cancelled out from under us by a select
		// that armed and then abandoned it; retry the whole match from
		// scratch with a fresh handoff.
	}
}

// Recv blocks until a value has been delivered from some sender on c, and
// returns it.
func (c *Channel[V]) Recv() V {
	for {
		h := c.obtainForRecv()
		if v, outcome := h.AsReceiver(); outcome == Completed {
			return v
		}
	}
}

// obtainForSend returns a Handoff on which the caller should play the
// sender's side: either a receiver's handoff dequeued from
// waitingReceivers, or a fresh handoff enqueued onto waitingSenders. It
// does not itself arrive on the handoff.
func (c *Channel[V]) obtainForSend() *Handoff[V] {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.waitingReceivers.Len() > 0 {
		return c.waitingReceivers.PopFront()
	}
	h := NewHandoff[V](c.spawn)
	c.waitingSenders.PushBack(h)
	return h
}

// obtainForRecv is the receiver-side mirror of obtainForSend.
func (c *Channel[V]) obtainForRecv() *Handoff[V] {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.waitingSenders.Len() > 0 {
		return c.waitingSenders.PopFront()
	}
	h := NewHandoff[V](c.spawn)
	c.waitingReceivers.PushBack(h)
	return h
}

// TryArmSend obtains a Handoff for a pending send of v, installs onReady on
// it, and performs the sender's arrival on it, all without blocking the
// caller. It is the building block [Select] uses to arm a send case: unlike
// Send, it never parks the calling goroutine.
func (c *Channel[V]) TryArmSend(v V, onReady func()) *Handoff[V] {
	h := c.obtainForSend()
	h.OnReady(onReady)
	h.arriveAsSender(v)
	return h
}

// TryArmRecv is the receiver-side mirror of TryArmSend.
func (c *Channel[V]) TryArmRecv(onReady func()) *Handoff[V] {
	h := c.obtainForRecv()
	h.OnReady(onReady)
	h.arriveAsReceiver()
	return h
}
