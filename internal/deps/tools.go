package deps

import (
	"context"
	"os/exec"
	"strings"

	"rawconvert/internal/config"
)

var commandContext = exec.CommandContext

// Requirements lists the external tools the configured setup depends on.
// ImageMagick performs every conversion; exiftool only backs the info
// command and is optional.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "ImageMagick",
			Command:     cfg.Codec.Binary,
			Description: "Decodes NEF raw files and encodes output images",
		},
		{
			Name:        "ExifTool",
			Command:     cfg.Exiftool.Binary,
			Description: "Reads image metadata for the info command",
			Optional:    true,
		},
	}
}

// ProbeVersion runs a tool's version invocation and returns the first output
// line. An empty string means the probe failed; availability is reported
// separately by CheckBinaries.
func ProbeVersion(ctx context.Context, command string, args ...string) string {
	command = strings.TrimSpace(command)
	if command == "" {
		return ""
	}
	out, err := commandContext(ctx, command, args...).Output()
	if err != nil {
		return ""
	}
	line := strings.TrimSpace(string(out))
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = strings.TrimSpace(line[:idx])
	}
	return line
}
