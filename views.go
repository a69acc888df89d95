package csync

// A Sender is a write-only view of a [Channel]. It is a zero-cost wrapper
// that delegates to the underlying channel; it exists so that a function
// can declare that it only sends, never receives.
type Sender[V any] struct{ c *Channel[V] }

// Send delegates to the underlying channel's Send.
func (s Sender[V]) Send(v V) { s.c.Send(v) }

// A Receiver is a read-only view of a [Channel]. It is a zero-cost wrapper
// that delegates to the underlying channel; it exists so that a function
// can declare that it only receives, never sends.
type Receiver[V any] struct{ c *Channel[V] }

// Recv delegates to the underlying channel's Recv.
func (r Receiver[V]) Recv() V { return r.c.Recv() }

// RecvAsync spawns (via spawnFn, or [Go] if nil) a goroutine that calls Recv
// and hands the result to onValue. It does not block the caller.
func (r Receiver[V]) RecvAsync(spawnFn func(func()), onValue func(V)) {
	r.c.RecvAsync(spawnFn, onValue)
}

// Sender returns a write-only view of c.
func (c *Channel[V]) Sender() Sender[V] { return Sender[V]{c: c} }

// Receiver returns a read-only view of c.
func (c *Channel[V]) Receiver() Receiver[V] { return Receiver[V]{c: c} }

// RecvAsync spawns (via spawnFn, or [Go] if nil) a goroutine that calls
// c.Recv and hands the result to onValue on whatever goroutine spawnFn runs
// it on. It does not block the caller.
func (c *Channel[V]) RecvAsync(spawnFn func(func()), onValue func(V)) {
	if spawnFn == nil {
		spawnFn = Go
	}
	spawnFn(func() {
		onValue(c.Recv())
	})
}
