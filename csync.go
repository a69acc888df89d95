// Package csync provides CSP-style synchronous rendezvous communication:
// unbuffered channels with Send, Recv, and a multi-way nondeterministic
// Select, built from a small two-party Handoff primitive.
//
// A Send on a [Channel] completes only when paired with a Recv on the same
// channel, and vice versa; the pairing and the value transfer happen
// atomically from the caller's point of view. [Select] arms several
// candidate sends and receives at once, waits for any of them to become
// ready, commits exactly one, and cancels the rest.
//
// Every blocking operation in this package parks the calling goroutine; none
// of them consume a worker from a bounded pool while blocked. Callers that
// want to bound how many goroutines a channel starts to commit its
// rendezvous can supply their own spawn function (see [NewChannelSpawn] and
// the spawn subpackage).
package csync

// Go is the default spawn function used by a [Handoff] or [Channel]
// constructed without an explicit one. It starts f on a new goroutine and
// does not wait for it to finish.
//
// Go itself never blocks, and f is never invoked synchronously by any
// method in this package — it is always handed to a spawn function such as
// Go for later execution.
func Go(f func()) { go f() }
