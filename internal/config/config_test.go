package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rawconvert/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantLogDir := filepath.Join(tempHome, ".local", "share", "rawconvert", "logs")
	if cfg.Paths.LogDir != wantLogDir {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogDir)
	}
	if cfg.Convert.Ratio != 0.15 {
		t.Fatalf("unexpected default ratio: %v", cfg.Convert.Ratio)
	}
	if len(cfg.Convert.Formats) != 1 || cfg.Convert.Formats[0] != "png" {
		t.Fatalf("unexpected default formats: %v", cfg.Convert.Formats)
	}
	if cfg.Codec.Binary != "magick" {
		t.Fatalf("unexpected codec binary: %q", cfg.Codec.Binary)
	}
	if !cfg.History.Enabled {
		t.Fatal("expected history enabled by default")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	if _, err := os.Stat(cfg.Paths.DataDir); err != nil {
		t.Fatalf("data dir not created: %v", err)
	}
}

func TestLoadReadsFileAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[convert]
formats = [" PNG ", "jpeg"]
ratio = 0.5
sort = "Numeric"

[output]
color = "NEVER"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved == "" {
		t.Fatalf("expected existing config, got exists=%v resolved=%q", exists, resolved)
	}
	if got := cfg.Convert.Formats; len(got) != 2 || got[0] != "png" || got[1] != "jpeg" {
		t.Fatalf("formats not normalized: %v", got)
	}
	if cfg.Convert.Sort != "numeric" {
		t.Fatalf("sort not normalized: %q", cfg.Convert.Sort)
	}
	if cfg.Output.Color != "never" {
		t.Fatalf("color not normalized: %q", cfg.Output.Color)
	}
}

func TestLoadRejectsRatioOutOfRange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[convert]\nratio = 1.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, _, err := config.Load(path)
	if err == nil {
		t.Fatal("expected validation error for ratio out of range")
	}
	if !strings.Contains(err.Error(), "convert.ratio") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadRejectsUnknownSortMethod(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[convert]\nsort = \"shuffle\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for unknown sort method")
	}
}

func TestCreateSampleRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	if err := config.CreateSample(path); err == nil {
		t.Fatal("expected error when sample already exists")
	}
}
