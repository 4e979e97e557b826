package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"rawconvert/internal/config"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	cfg        *config.Config
}

// setupCLITestEnv builds an isolated home directory, stub magick and
// exiftool executables, and a config file pointing at them.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	binDir := filepath.Join(base, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin: %v", err)
	}
	magickPath := filepath.Join(binDir, "magick")
	writeScript(t, magickPath, `#!/bin/sh
if [ "$1" = "-version" ]; then
  echo "Version: ImageMagick 7.1.1-43 Q16-HDRI"
  exit 0
fi
for arg; do dest=$arg; done
dest=${dest#*:}
: > "$dest"
exit 0
`)
	exiftoolPath := filepath.Join(binDir, "exiftool")
	writeScript(t, exiftoolPath, `#!/bin/sh
if [ "$1" = "-ver" ]; then
  echo "13.40"
  exit 0
fi
echo '[{"SourceFile":"test","EXIF:Model":"NIKON D850","EXIF:ISO":400}]'
exit 0
`)

	cfgVal := config.Default()
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Codec.Binary = magickPath
	cfgVal.Exiftool.Binary = exiftoolPath
	cfgVal.History.Enabled = true
	cfgVal.Logging.Format = "json"
	cfgVal.Logging.Level = "error"

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, &cfgVal)

	return &cliTestEnv{
		baseDir:    base,
		configPath: configPath,
		cfg:        &cfgVal,
	}
}

func writeScript(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		t.Fatalf("write script %s: %v", path, err)
	}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	encoded, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

// writeNEF writes a file that passes the NEF sniff.
func writeNEF(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	data := append([]byte("II*\x00\x08\x00\x00\x00"), []byte("NIKON CORPORATION")...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{"--color", "never"}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireFile(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file at %s: %v", path, err)
	}
}

func seedNEFDir(t *testing.T, dir string, count int) {
	t.Helper()
	for i := 1; i <= count; i++ {
		writeNEF(t, filepath.Join(dir, fmt.Sprintf("DSC_%04d.nef", i)))
	}
}
