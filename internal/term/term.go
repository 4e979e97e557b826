// Package term provides ANSI color helpers and terminal detection.
//
// The palette matches the tool's status output: pink for filenames, blue for
// formats and timing, green for success, red for failures. Configure resolves
// the color mode once during startup; while colors are disabled every helper
// returns its input unchanged.
package term

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Mode selects how color output is resolved.
type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeAlways Mode = "always"
	ModeNever  Mode = "never"
)

var enabled = false

// Truecolor sequences. The palette mirrors the tool's original scheme.
const (
	seqBlue  = "\033[38;2;157;172;255m"
	seqPink  = "\033[38;2;255;208;215m"
	seqWhite = "\033[38;2;228;228;228m"
	seqDark  = "\033[38;2;120;120;120m"
	seqGreen = "\033[38;2;112;227;43m"
	seqRed   = "\033[1;91m"
	seqReset = "\033[0m"
)

// Configure resolves the color mode and sets package state. Call once during
// startup, before any colored output.
func Configure(mode Mode) {
	switch mode {
	case ModeAlways:
		enabled = true
	case ModeNever:
		enabled = false
	default:
		enabled = stdoutIsTerminal() &&
			os.Getenv("NO_COLOR") == "" &&
			strings.ToLower(os.Getenv("TERM")) != "dumb"
	}
}

// Enabled reports whether ANSI colors are currently active.
func Enabled() bool { return enabled }

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func wrap(seq, s string) string {
	if !enabled || s == "" {
		return s
	}
	return seq + s + seqReset
}

// Blue colors s with the palette's accent blue.
func Blue(s string) string { return wrap(seqBlue, s) }

// Pink colors s with the palette's soft pink.
func Pink(s string) string { return wrap(seqPink, s) }

// White colors s with the palette's off-white.
func White(s string) string { return wrap(seqWhite, s) }

// Dark colors s with a dim gray.
func Dark(s string) string { return wrap(seqDark, s) }

// Green colors s with the palette's success green.
func Green(s string) string { return wrap(seqGreen, s) }

// Red colors s bright red.
func Red(s string) string { return wrap(seqRed, s) }
