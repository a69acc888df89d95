package csync_test

import (
	"testing"
	"time"

	"github.com/creachadair/csync"
	"github.com/creachadair/mds/mtest"
	"github.com/creachadair/mds/value"
	"github.com/fortytw2/leaktest"
)

// Three channels, each fed by a producer looping Send(i); a run of selects
// over one receive case per channel should choose each channel more than
// rarely (a weak fairness check, not a distribution test).
func TestSelect_fairnessAcrossChannels(t *testing.T) {
	const numChannels = 3
	const numSelects = 200

	chans := make([]*csync.Channel[int], numChannels)
	stop := make(chan struct{})
	for i := range chans {
		chans[i] = csync.NewChannel[int]()
		i := i
		go func() {
			for {
				select {
				case <-stop:
					return
				default:
				}
				chans[i].Send(i)
			}
		}()
	}
	defer close(stop)

	counts := make([]int, numChannels)
	for i := 0; i < numSelects; i++ {
		cases := make([]csync.SelectCase, numChannels)
		for i, ch := range chans {
			i, ch := i, ch
			cases[i] = csync.RecvCase(ch, func(int) { counts[i]++ })
		}
		csync.Select(cases...)
	}

	for i, c := range counts {
		if c <= 2 {
			t.Errorf("channel %d chosen %d times out of %d selects, want > 2", i, c, numSelects)
		}
	}
}

// Two receive cases (each peered with a producer sending its index) plus
// two send cases (each peered with a receiver expecting its index) plus one
// never-ready case; after one Select call, exactly one of the four live
// cases fires and its peer observes the corresponding value.
func TestSelect_mixedSendRecv(t *testing.T) {
	// No leaktest here: whichever of the four live cases does not win
	// retries its enclosing Send/Recv per the channel's normal cancellation
	// contract, and in this test there is no second peer for it to pair
	// with, so it stays parked by design.
	recvChans := []*csync.Channel[int]{csync.NewChannel[int](), csync.NewChannel[int]()}
	sendChans := []*csync.Channel[int]{csync.NewChannel[int](), csync.NewChannel[int]()}
	neverChan := csync.NewChannel[int]() // no peer ever touches this channel

	// Peers for the receive cases: producers waiting to send their index.
	for i, ch := range recvChans {
		go ch.Send(i)
	}
	// Peers for the send cases: consumers waiting to receive the expected
	// index.
	peerResults := make([]chan int, len(sendChans))
	for i, ch := range sendChans {
		peerResults[i] = make(chan int, 1)
		i, ch := i, ch
		go func() { peerResults[i] <- ch.Recv() }()
	}

	fired := make([]bool, 4) // 0,1 = recv cases; 2,3 = send cases
	cases := []csync.SelectCase{
		csync.RecvCase(recvChans[0], func(v int) {
			fired[0] = true
			if v != 0 {
				t.Errorf("recv case 0 got %d, want 0", v)
			}
		}),
		csync.RecvCase(recvChans[1], func(v int) {
			fired[1] = true
			if v != 1 {
				t.Errorf("recv case 1 got %d, want 1", v)
			}
		}),
		csync.SendCase(sendChans[0], 0, func() { fired[2] = true }),
		csync.SendCase(sendChans[1], 1, func() { fired[3] = true }),
		csync.RecvCase(neverChan, func(int) {
			t.Error("never-ready case fired")
		}),
	}
	csync.Select(cases...)

	n := 0
	for _, f := range fired {
		if f {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("expected exactly one live case to fire, got %d (%v)", n, fired)
	}

	// If a send case fired, its peer consumer must have observed the value.
	for i, ch := range peerResults {
		want := value.Cond(fired[2+i], "a delivered value", "no value")
		select {
		case v := <-ch:
			if !fired[2+i] {
				t.Errorf("consumer %d received %d, but send case %d did not fire (wanted %s)", i, v, i, want)
			} else if v != i {
				t.Errorf("consumer %d received %d, want %d", i, v, i)
			}
		case <-time.After(20 * time.Millisecond):
			if fired[2+i] {
				t.Errorf("send case %d fired but its peer never received a value (wanted %s)", i, want)
			}
		}
	}
}

// A select over channels A and B where only A is ready must not leak any
// observable effect onto B: pushing a value to B afterward is received by
// a fresh Recv, not by the cancelled select case.
func TestSelect_cancellationNonLeakage(t *testing.T) {
	defer leaktest.Check(t)()

	a := csync.NewChannel[int]()
	b := csync.NewChannel[int]()

	go a.Send(1)

	var gotA int
	var bFired bool
	csync.Select(
		csync.RecvCase(a, func(v int) { gotA = v }),
		csync.RecvCase(b, func(int) { bFired = true }),
	)
	if gotA != 1 {
		t.Fatalf("recv case for a: got %d, want 1", gotA)
	}
	if bFired {
		t.Fatal("recv case for b fired even though only a was ready")
	}

	// b's cancelled case must not have consumed anything from b; a later
	// Send/Recv pair on b must still work normally.
	go b.Send(2)
	if got := b.Recv(); got != 2 {
		t.Fatalf("Recv on b after cancelled select case: got %d, want 2", got)
	}
}

func TestSelect_emptyPanics(t *testing.T) {
	mtest.MustPanicf(t, func() { csync.Select() }, "expected Select() with no cases to panic")
}
