// Package batch is the concurrent conversion engine.
//
// A Runner fans a fixed list of jobs out to a bounded pool of workers. Each
// worker invokes the codec once per requested output format, records the
// completion on a shared Tracker, and enqueues a single terminal status line
// for the job. The initiating goroutine drains the status queue and prints
// lines in dequeue order. Cancellation is cooperative: an idempotent flag is
// checked before each dispatch and before each job start, and in-flight
// conversions always run to completion.
package batch
