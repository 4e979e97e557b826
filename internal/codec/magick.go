package codec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

var commandContext = exec.CommandContext

// Option configures the CLI converter.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// CLI wraps the ImageMagick command-line tool. Raw decode, demosaic, resize,
// and encode all happen inside the external process; this wrapper only builds
// arguments and reports failures.
type CLI struct {
	binary string
}

// NewCLI constructs a CLI converter using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "magick"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Convert runs one conversion. The failure reason contains the tool's stderr
// output verbatim so it can be reported on the status line.
func (c *CLI) Convert(ctx context.Context, req Request) error {
	if req.SourcePath == "" {
		return errors.New("source path required")
	}
	if req.DestPath == "" {
		return errors.New("destination path required")
	}
	format, err := NormalizeFormat(req.Format)
	if err != nil {
		return err
	}
	if !(req.ResizeRatio > 0 && req.ResizeRatio <= 1) {
		return fmt.Errorf("resize ratio %v outside (0, 1]", req.ResizeRatio)
	}

	args := make([]string, 0, 8)
	if req.UsePreview {
		// Ask the raw delegate for the embedded preview instead of a full
		// demosaic pass.
		args = append(args, "-define", "dng:read-thumbnail=true")
	}
	args = append(args, req.SourcePath)
	if req.ResizeRatio < 1 {
		args = append(args, "-resize", resizePercent(req.ResizeRatio))
	}
	args = append(args, format+":"+req.DestPath)

	cmd := commandContext(ctx, c.binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if reason := strings.TrimSpace(stderr.String()); reason != "" {
			return fmt.Errorf("convert %s: %s", format, firstLine(reason))
		}
		return fmt.Errorf("convert %s: %w", format, err)
	}
	return nil
}

// resizePercent maps an area ratio onto a per-axis percentage, so a ratio of
// 0.25 halves each dimension.
func resizePercent(ratio float64) string {
	percent := math.Sqrt(ratio) * 100
	return strconv.FormatFloat(percent, 'f', 4, 64) + "%"
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return strings.TrimSpace(s[:idx])
	}
	return s
}

var _ Converter = (*CLI)(nil)
