package csync

import "errors"

// ErrEmptySelect is the error reported (via panic) when [Select] is called
// with no cases. An empty select set can never make progress, so it is
// treated as a usage error rather than a call that blocks forever.
var ErrEmptySelect = errors.New("csync: select requires at least one case")
