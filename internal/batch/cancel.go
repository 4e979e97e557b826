package batch

import "sync/atomic"

// Canceller is the shared stop flag for one run. It is safe to set from any
// goroutine, including a signal handler context, and never resets.
type Canceller struct {
	flag atomic.Bool
}

// Cancel sets the flag. It reports true only for the first effective call so
// callers can emit a one-time "stopping" notice; repeated cancels are no-ops.
func (c *Canceller) Cancel() bool {
	return c.flag.CompareAndSwap(false, true)
}

// Cancelled reports whether a cancellation request has been observed.
func (c *Canceller) Cancelled() bool {
	return c.flag.Load()
}
