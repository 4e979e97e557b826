package exiftool

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var commandContext = exec.CommandContext

// Client defines metadata extraction behaviour.
type Client interface {
	Metadata(ctx context.Context, path string) (map[string]string, error)
	Version(ctx context.Context) (string, error)
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// CLI wraps the exiftool command-line tool.
type CLI struct {
	binary string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "exiftool"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Metadata runs exiftool in JSON mode and flattens the result into a
// "Group:Tag" keyed map.
func (c *CLI) Metadata(ctx context.Context, path string) (map[string]string, error) {
	if path == "" {
		return nil, errors.New("path required")
	}

	cmd := commandContext(ctx, c.binary, "-j", "-G", path)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, installHint(err)
		}
		if reason := strings.TrimSpace(stderr.String()); reason != "" {
			return nil, fmt.Errorf("exiftool: %s", reason)
		}
		return nil, fmt.Errorf("exiftool: %w", err)
	}

	return parseJSON(stdout.Bytes())
}

// Version returns the exiftool version string.
func (c *CLI) Version(ctx context.Context) (string, error) {
	cmd := commandContext(ctx, c.binary, "-ver")
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", installHint(err)
		}
		return "", fmt.Errorf("exiftool version: %w", err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// parseJSON merges exiftool's JSON array (one object per input file) into a
// single flat string map.
func parseJSON(data []byte) (map[string]string, error) {
	var parsed []map[string]any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse exiftool output: %w", err)
	}

	merged := make(map[string]string)
	for _, object := range parsed {
		for key, value := range object {
			merged[key] = stringify(value)
		}
	}
	return merged, nil
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprint(v)
	}
}

func installHint(err error) error {
	return fmt.Errorf("exiftool not found (%w); install it with your package manager, e.g. "+
		"'apt install exiftool', 'dnf install perl-image-exiftool', or 'brew install exiftool'", err)
}

var _ Client = (*CLI)(nil)
