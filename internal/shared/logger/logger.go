package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New initializes the base zerolog.Logger every component derives from.
// 'devMode' enables human-readable console logging. An unknown level
// falls back to info.
func New(devMode bool, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if devMode {
		// Human-readable, colorful output for local development
		consoleWriter := zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}
		logger = zerolog.New(consoleWriter)
	} else {
		// JSON output for production
		logger = zerolog.New(os.Stderr)
	}

	return logger.Level(lvl).With().Timestamp().Str("service", "erecyclo").Logger()
}
