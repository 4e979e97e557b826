package deps

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"rawconvert/internal/testsupport"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
}

func TestCheckBinariesEmptyCommand(t *testing.T) {
	results := CheckBinaries([]Requirement{{Name: "Blank", Command: "  "}})
	if len(results) != 1 || results[0].Available {
		t.Fatalf("expected blank command to be unavailable, got %#v", results)
	}
	if results[0].Detail != "command not configured" {
		t.Fatalf("unexpected detail: %q", results[0].Detail)
	}
}

func TestRequirementsFollowConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Codec.Binary = "/opt/magick"
	cfg.Exiftool.Binary = "/opt/exiftool"

	reqs := Requirements(cfg)
	if len(reqs) != 2 {
		t.Fatalf("expected 2 requirements, got %d", len(reqs))
	}
	if reqs[0].Command != "/opt/magick" || reqs[0].Optional {
		t.Fatalf("unexpected magick requirement: %#v", reqs[0])
	}
	if reqs[1].Command != "/opt/exiftool" || !reqs[1].Optional {
		t.Fatalf("unexpected exiftool requirement: %#v", reqs[1])
	}
}

func TestStubbedDefaultToolsAreAvailable(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())

	results := CheckBinaries(Requirements(cfg))
	for _, status := range results {
		if !status.Available {
			t.Fatalf("expected %s to resolve via PATH, got %#v", status.Name, status)
		}
	}
}

func TestProbeVersion(t *testing.T) {
	binDir := t.TempDir()
	tool := filepath.Join(binDir, "tool")
	script := []byte("#!/bin/sh\necho 'Version 7.1.1-43'\necho 'extra line'\nexit 0\n")
	if err := os.WriteFile(tool, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	got := ProbeVersion(context.Background(), tool, "-version")
	if got != "Version 7.1.1-43" {
		t.Fatalf("unexpected version line: %q", got)
	}

	if got := ProbeVersion(context.Background(), "definitely-missing-tool"); got != "" {
		t.Fatalf("expected empty version for missing tool, got %q", got)
	}
}
