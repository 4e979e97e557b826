package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"rawconvert/internal/config"
	"rawconvert/internal/logging"
	"rawconvert/internal/term"
)

type commandContext struct {
	configFlag *string
	colorFlag  *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, colorFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		colorFlag:  colorFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	if c.loggerErr != nil {
		return logging.Discard(), c.loggerErr
	}
	return c.logger, nil
}

// configureColor resolves the effective color mode. The --color flag wins
// over the configured default.
func (c *commandContext) configureColor() {
	mode := ""
	if c.colorFlag != nil {
		mode = strings.TrimSpace(*c.colorFlag)
	}
	if mode == "" {
		if cfg, err := c.ensureConfig(); err == nil {
			mode = cfg.Output.Color
		}
	}
	switch mode {
	case string(term.ModeAlways):
		term.Configure(term.ModeAlways)
	case string(term.ModeNever):
		term.Configure(term.ModeNever)
	default:
		term.Configure(term.ModeAuto)
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
