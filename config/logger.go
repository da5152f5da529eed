package config

import (
	"os"

	"github.com/rs/zerolog"
)

// NewLogger returns a zerolog.Logger configured from the environment.
// Production writes JSON to stdout; development uses the console writer.
// LOG_LEVEL may be: debug, info, warn, error (default: info).
func NewLogger(cfg *Config) zerolog.Logger {
	level := zerolog.InfoLevel
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	if cfg.Production() {
		return zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).Level(level).With().Timestamp().Logger()
}
