package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeConvert()
	c.normalizeBinaries()
	c.normalizeLogging()
	c.normalizeOutput()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeConvert() {
	formats := make([]string, 0, len(c.Convert.Formats))
	for _, format := range c.Convert.Formats {
		trimmed := strings.ToLower(strings.TrimSpace(format))
		if trimmed != "" {
			formats = append(formats, trimmed)
		}
	}
	if len(formats) == 0 {
		formats = []string{defaultOutputFormat}
	}
	c.Convert.Formats = formats
	if c.Convert.Ratio == 0 {
		c.Convert.Ratio = defaultRatio
	}
	c.Convert.Sort = strings.ToLower(strings.TrimSpace(c.Convert.Sort))
}

func (c *Config) normalizeBinaries() {
	if value, ok := os.LookupEnv("RAWCONVERT_MAGICK"); ok && strings.TrimSpace(value) != "" {
		c.Codec.Binary = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Codec.Binary) == "" {
		c.Codec.Binary = defaultCodecBinary
	}
	if strings.TrimSpace(c.Exiftool.Binary) == "" {
		c.Exiftool.Binary = defaultExiftool
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.History.KeepRuns <= 0 {
		c.History.KeepRuns = defaultHistoryKeep
	}
}

func (c *Config) normalizeOutput() {
	c.Output.Color = strings.ToLower(strings.TrimSpace(c.Output.Color))
	if c.Output.Color == "" {
		c.Output.Color = defaultColorMode
	}
}
