package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ServiceName is attached to every log line
const ServiceName = "news-cms-api"

// Options selects the level and output format of the logger
type Options struct {
	Level  string // debug, info, warn, error
	Format string // "json" or "pretty"
	Env    string
}

// New creates a new zerolog logger writing structured output to stdout
func New(opts Options) zerolog.Logger {
	return newWithWriter(opts, os.Stdout)
}

func newWithWriter(opts Options, out io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	// Use pretty console output in development
	if opts.Format == "pretty" || opts.Env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).
			Level(level).
			With().
			Timestamp().
			Caller().
			Str("service", ServiceName).
			Logger()
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", ServiceName).
		Logger()
}
