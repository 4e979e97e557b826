package batch

import (
	"sync"
	"time"
)

// Tracker aggregates completion progress across workers and derives the
// estimated time remaining from global throughput so far. The estimate is
// deliberately coarse: one long job skews the shared average rather than just
// its own entry.
type Tracker struct {
	mu        sync.Mutex
	total     int
	completed int
	start     time.Time

	now func() time.Time // clock seam for tests
}

// NewTracker starts tracking a run of total jobs from now.
func NewTracker(total int) *Tracker {
	return newTrackerAt(total, time.Now)
}

func newTrackerAt(total int, now func() time.Time) *Tracker {
	return &Tracker{total: total, start: now(), now: now}
}

// RecordCompletion registers one successfully finished job and returns the new
// completed count plus the estimated remaining time. The increment and the
// estimate share one critical section so two concurrent completions never
// observe the same pre-increment count.
func (t *Tracker) RecordCompletion() (int, time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.completed++
	average := t.now().Sub(t.start) / time.Duration(t.completed)
	remaining := average * time.Duration(t.total-t.completed)
	return t.completed, remaining
}

// Completed returns the number of jobs recorded so far.
func (t *Tracker) Completed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.completed
}

// Elapsed returns the wall time since the run started.
func (t *Tracker) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.now().Sub(t.start)
}
