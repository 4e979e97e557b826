// Package history persists completed batch runs to a local SQLite database.
//
// The store sits off the hot path: the convert command writes one Run after
// the batch finishes, and the history command reads recent runs back. A write
// failure degrades to a warning and never fails the conversion itself.
package history
