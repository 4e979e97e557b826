package config

const (
	defaultLogDir       = "~/.local/share/rawconvert/logs"
	defaultDataDir      = "~/.local/share/rawconvert"
	defaultRatio        = 0.15
	defaultCodecBinary  = "magick"
	defaultExiftool     = "exiftool"
	defaultHistoryKeep  = 100
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
	defaultColorMode    = "auto"
	defaultOutputFormat = "png"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:  defaultLogDir,
			DataDir: defaultDataDir,
		},
		Convert: Convert{
			Formats: []string{defaultOutputFormat},
			Ratio:   defaultRatio,
			Workers: 0, // 0 resolves to runtime.NumCPU at run time
		},
		Codec: Codec{
			Binary: defaultCodecBinary,
		},
		Exiftool: Exiftool{
			Binary: defaultExiftool,
		},
		History: History{
			Enabled:  true,
			KeepRuns: defaultHistoryKeep,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Output: Output{
			Color: defaultColorMode,
		},
	}
}
