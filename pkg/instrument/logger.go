package instrument

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// LogConfig describes a logger for debug events.
type LogConfig struct {
	// Level is a zerolog level name. Unknown or empty means "debug".
	Level string

	// Format is "json" (default) or "console".
	Format string

	// Output defaults to os.Stderr.
	Output io.Writer

	// NoColor disables colors in console format.
	NoColor bool
}

// NewLogger builds a zerolog.Logger from cfg. Unlike zerolog's global
// level, the level is applied to the returned logger only.
func NewLogger(cfg LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.DebugLevel
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	var zl zerolog.Logger
	switch strings.ToLower(cfg.Format) {
	case "console", "pretty":
		zl = zerolog.New(zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "15:04:05",
			NoColor:    cfg.NoColor,
		})
	default:
		zl = zerolog.New(out)
	}

	return zl.Level(level).With().Timestamp().Str("component", "lazyflow").Logger()
}
