package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateConvert(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateConvert() error {
	if !(c.Convert.Ratio > 0 && c.Convert.Ratio <= 1) {
		return errors.New("convert.ratio must be between 0 (exclusive) and 1 (inclusive)")
	}
	if c.Convert.Workers < 0 {
		return errors.New("convert.workers must not be negative")
	}
	switch c.Convert.Sort {
	case "", "name", "numeric", "size", "mtime":
	default:
		return fmt.Errorf("convert.sort: unknown method %q (valid: name, numeric, size, mtime)", c.Convert.Sort)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateOutput() error {
	switch c.Output.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("output.color: unsupported value %q (valid: auto, always, never)", c.Output.Color)
	}
	return nil
}
