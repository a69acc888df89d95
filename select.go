package csync

import (
	"math/rand"
	"runtime"
)

// A SelectCase is a candidate operation for [Select]: either a receive from
// some channel or a send of some value to some channel, together with a
// callback to run if this case is the one chosen. Construct one with
// [RecvCase] or [SendCase]. The zero value is not usable.
type SelectCase interface {
	arm(signal func()) armedCase
}

// armedCase is the type-erased view Select needs of an armed case,
// regardless of the channel's element type.
type armedCase interface {
	isReady() bool
	// commit proceeds the case's handoff and, iff it actually committed
	// (rather than losing a race to a concurrent canceller), invokes the
	// case's user callback and returns true.
	commit() bool
	cancel()
}

type recvCase[V any] struct {
	ch *Channel[V]
	cb func(V)
}

// RecvCase constructs a [SelectCase] that receives from ch. If this case is
// chosen, cb is invoked with the received value.
func RecvCase[V any](ch *Channel[V], cb func(V)) SelectCase {
	return recvCase[V]{ch: ch, cb: cb}
}

func (c recvCase[V]) arm(signal func()) armedCase {
	return &armedRecvCase[V]{h: c.ch.TryArmRecv(signal), cb: c.cb}
}

type armedRecvCase[V any] struct {
	h  *Handoff[V]
	cb func(V)
}

func (a *armedRecvCase[V]) isReady() bool { return a.h.IsReady() }
func (a *armedRecvCase[V]) cancel()       { a.h.Cancel() }
func (a *armedRecvCase[V]) commit() bool {
	if a.h.Proceed() != Completed {
		return false
	}
	v, _ := a.h.Result()
	a.cb(v)
	return true
}

type sendCase[V any] struct {
	ch *Channel[V]
	v  V
	cb func()
}

// SendCase constructs a [SelectCase] that sends v to ch. If this case is
// chosen, cb is invoked once v has been delivered.
func SendCase[V any](ch *Channel[V], v V, cb func()) SelectCase {
	return sendCase[V]{ch: ch, v: v, cb: cb}
}

func (c sendCase[V]) arm(signal func()) armedCase {
	return &armedSendCase[V]{h: c.ch.TryArmSend(c.v, signal), cb: c.cb}
}

type armedSendCase[V any] struct {
	h  *Handoff[V]
	cb func()
}

func (a *armedSendCase[V]) isReady() bool { return a.h.IsReady() }
func (a *armedSendCase[V]) cancel()       { a.h.Cancel() }
func (a *armedSendCase[V]) commit() bool {
	if a.h.Proceed() != Completed {
		return false
	}
	a.cb()
	return true
}

// Select drives exactly one of cases to completion, invoking that case's
// callback, and cancels every other case so it has no observable effect on
// its channel. Select panics with [ErrEmptySelect] if cases is empty.
//
// Among cases that are simultaneously ready, Select chooses uniformly at
// random rather than in FIFO order, so that no case is systematically
// starved.
//
// Two concurrent Select calls that arm overlapping handoffs (by racing to
// arm the same channel) can both end up cancelling the case they picked, in
// which case each retries with its original case set. The retry loop makes
// progress as long as some rendezvous eventually succeeds; it is not a
// stronger liveness guarantee than that.
func Select(cases ...SelectCase) {
	if len(cases) == 0 {
		panic(ErrEmptySelect)
	}
	for {
		armed, winner := armAndWait(cases)
		if winner < 0 {
			cancelAll(armed)
			continue
		}
		cancelAllExcept(armed, winner)
		if !armed[winner].commit() {
			// Lost a race with a concurrent select that got to this handoff
			// first; nothing was transferred, so start over.
			continue
		}
		return
	}
}

// armAndWait arms every case against a shared readiness signal, waits for
// the first of them to fire it, then scans all armed cases and returns the
// index of one chosen uniformly at random among those found ready. A case
// whose handoff is already Done (for example, cancelled by a concurrent
// select) counts as ready, since IsReady reports Done as ready; if such a
// case is chosen, its commit fails and Select retries. It returns
// winner == -1 if no armed case is Ready or Done at the time of the scan.
func armAndWait(cases []SelectCase) ([]armedCase, int) {
	var signal anyReady

	armed := make([]armedCase, len(cases))
	for i, c := range cases {
		armed[i] = c.arm(signal.Set)
	}

	<-signal.Ready()
	// Yield once so that peers woken by an earlier round can arrive on their
	// handoffs before the scan; otherwise the case whose peer happens to run
	// first is the only one found ready, round after round.
	runtime.Gosched()

	var ready []int
	for i, a := range armed {
		if a.isReady() {
			ready = append(ready, i)
		}
	}
	if len(ready) == 0 {
		return armed, -1
	}
	return armed, ready[rand.Intn(len(ready))]
}

func cancelAll(armed []armedCase) {
	for _, a := range armed {
		a.cancel()
	}
}

func cancelAllExcept(armed []armedCase, keep int) {
	for i, a := range armed {
		if i != keep {
			a.cancel()
		}
	}
}
