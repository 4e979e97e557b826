package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"rawconvert/internal/codec"
	"rawconvert/internal/logging"
	"rawconvert/internal/term"
)

// drainInterval bounds how long the drain loop waits for a status line before
// re-checking run state.
const drainInterval = 200 * time.Millisecond

// Options configures a Runner.
type Options struct {
	// Concurrency is the worker count. Values below 1 resolve to the number
	// of CPU cores.
	Concurrency int
	// Out receives status lines. Defaults to stdout.
	Out io.Writer
	// Logger receives diagnostics. Defaults to a discard logger.
	Logger *slog.Logger
	// Precheck, when set, runs before a job's first conversion. A non-nil
	// error skips the job with that reason and no codec call is made;
	// a skip is a terminal line but neither a completion nor a failure.
	Precheck func(Job) error
}

// Runner executes a fixed list of jobs against a converter with a bounded
// worker pool. A Runner is good for one Run call at a time; the cancellation
// flag persists across calls and never resets.
type Runner struct {
	converter   codec.Converter
	concurrency int
	out         io.Writer
	logger      *slog.Logger
	precheck    func(Job) error

	cancel Canceller

	mu     sync.Mutex
	status chan string // non-nil while a run accepts status lines
}

// NewRunner builds a Runner around the given converter.
func NewRunner(converter codec.Converter, opts Options) *Runner {
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = runtime.NumCPU()
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Runner{
		converter:   converter,
		concurrency: concurrency,
		out:         out,
		logger:      logger,
		precheck:    opts.Precheck,
	}
}

// Stop requests cooperative shutdown: no further jobs are dispatched or
// started, in-flight conversions finish. The first call enqueues a one-time
// stopping notice; repeated calls are no-ops. Safe to call from any
// goroutine, including a signal handler.
func (r *Runner) Stop() {
	if !r.cancel.Cancel() {
		return
	}
	// The send stays under r.mu so it cannot race the closer goroutine,
	// which nils r.status under the same mutex before closing the channel.
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status == nil {
		return
	}
	select {
	case r.status <- term.Red("Interrupt received, stopping after in-flight jobs..."):
	default:
	}
}

// Stopped reports whether shutdown has been requested.
func (r *Runner) Stopped() bool {
	return r.cancel.Cancelled()
}

// Run converts every job and returns the aggregate summary. It blocks until
// each dispatched job has produced its terminal status line, or until
// cancellation and the in-flight work has drained.
func (r *Runner) Run(ctx context.Context, jobs []Job) Summary {
	total := len(jobs)
	tracker := NewTracker(total)

	// Each accepted job enqueues exactly one terminal line, so this buffer
	// guarantees producers never block. The slack covers the stopping notice.
	status := make(chan string, total+4)
	r.mu.Lock()
	r.status = status
	r.mu.Unlock()

	workers := r.concurrency
	if workers > total {
		workers = total
	}

	var attempted, failed, skipped atomic.Int64
	var resultsMu sync.Mutex
	results := make([]Result, 0, total)

	jobCh := make(chan Job)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				if r.cancel.Cancelled() {
					// Abandoned before start: no codec call, no status line.
					continue
				}
				attempted.Add(1)
				line, result := r.process(ctx, job, tracker)
				switch result.Outcome {
				case OutcomeFailed:
					failed.Add(1)
				case OutcomeSkipped:
					skipped.Add(1)
				}
				resultsMu.Lock()
				results = append(results, result)
				resultsMu.Unlock()
				status <- line
			}
		}()
	}

	go func() {
		for _, job := range jobs {
			if r.cancel.Cancelled() {
				break
			}
			jobCh <- job
		}
		close(jobCh)
	}()

	go func() {
		wg.Wait()
		// Detach the channel from Stop before closing it so a late
		// interrupt cannot send on a closed channel.
		r.mu.Lock()
		r.status = nil
		r.mu.Unlock()
		close(status)
	}()

drain:
	for {
		select {
		case line, ok := <-status:
			if !ok {
				break drain
			}
			fmt.Fprintln(r.out, line)
		case <-time.After(drainInterval):
			r.logger.Debug("waiting for conversions",
				"component", "batch",
				"completed", tracker.Completed(),
				"attempted", attempted.Load(),
				"stopping", r.cancel.Cancelled())
		}
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Index < results[j].Index })

	return Summary{
		Total:     total,
		Attempted: int(attempted.Load()),
		Completed: tracker.Completed(),
		Failed:    int(failed.Load()),
		Skipped:   int(skipped.Load()),
		Stopped:   r.cancel.Cancelled(),
		Elapsed:   tracker.Elapsed(),
		Results:   results,
	}
}

// process runs one job to its terminal state and returns the status line plus
// the job result. Output formats are produced sequentially in request order;
// the first failure ends the job.
func (r *Runner) process(ctx context.Context, job Job, tracker *Tracker) (string, Result) {
	start := time.Now()
	fail := func(err error) (string, Result) {
		return failureLine(job, err), Result{
			Index:       job.Index,
			SourcePath:  job.SourcePath,
			DisplayName: job.DisplayName,
			Outcome:     OutcomeFailed,
			Detail:      err.Error(),
			Elapsed:     time.Since(start),
		}
	}

	if r.precheck != nil {
		if err := r.precheck(job); err != nil {
			r.logger.Debug("job skipped by precheck", "component", "batch", "source", job.SourcePath, "reason", err)
			return skippedLine(job, err), Result{
				Index:       job.Index,
				SourcePath:  job.SourcePath,
				DisplayName: job.DisplayName,
				Outcome:     OutcomeSkipped,
				Detail:      err.Error(),
				Elapsed:     time.Since(start),
			}
		}
	}

	for _, output := range job.Outputs {
		err := r.converter.Convert(ctx, codec.Request{
			SourcePath:  job.SourcePath,
			DestPath:    output.DestPath,
			Format:      output.Format,
			ResizeRatio: job.ResizeRatio,
			UsePreview:  job.UsePreview,
		})
		if err != nil {
			r.logger.Debug("conversion failed", "component", "batch", "source", job.SourcePath, "format", output.Format, "error", err)
			return fail(err)
		}
	}

	elapsed := time.Since(start)
	_, remaining := tracker.RecordCompletion()
	return successLine(job, elapsed, remaining), Result{
		Index:       job.Index,
		SourcePath:  job.SourcePath,
		DisplayName: job.DisplayName,
		Outcome:     OutcomeCompleted,
		Elapsed:     elapsed,
	}
}

func successLine(job Job, elapsed, remaining time.Duration) string {
	formats := make([]string, 0, len(job.Outputs))
	for _, output := range job.Outputs {
		formats = append(formats, output.Format)
	}
	return fmt.Sprintf("[%d/%d] %s to %s... %s (%s), est. time left: %s",
		job.Index, job.Total,
		term.Pink(job.DisplayName),
		term.Blue(strings.Join(formats, "+")),
		term.Green("done"),
		FormatDuration(elapsed),
		FormatDuration(remaining))
}

func skippedLine(job Job, err error) string {
	return fmt.Sprintf("[%d/%d] %s... %s",
		job.Index, job.Total,
		term.Pink(job.DisplayName),
		term.Pink(fmt.Sprintf("Skipped (%v)", err)))
}

func failureLine(job Job, err error) string {
	return fmt.Sprintf("[%d/%d] %s... %s: %v",
		job.Index, job.Total,
		term.Pink(job.DisplayName),
		term.Red("error"),
		err)
}
