package batch

import (
	"fmt"
	"time"
)

// Outcome classifies a job's terminal state.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeFailed    Outcome = "failed"
	OutcomeSkipped   Outcome = "skipped"
)

// Result records the terminal state of one attempted job.
type Result struct {
	Index       int
	SourcePath  string
	DisplayName string
	Outcome     Outcome
	Detail      string
	Elapsed     time.Duration
}

// Summary reports the outcome of one run. Results holds one entry per
// attempted job, ordered by job index; abandoned jobs do not appear.
// Completed, Failed and Skipped partition the attempted jobs.
type Summary struct {
	Total     int
	Attempted int
	Completed int
	Failed    int
	Skipped   int
	Stopped   bool
	Elapsed   time.Duration
	Results   []Result
}

// FormatDuration renders d the way status lines expect: whole seconds below a
// minute, "Xm Ys" above.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d.Seconds())
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}
	return fmt.Sprintf("%dm %ds", secs/60, secs%60)
}
