package cliconfig

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var logger zerolog.Logger

func init() {
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
}

// Logger returns the package logger.
func Logger() zerolog.Logger {
	return logger
}

// NewLogger builds the process logger for the configured format and level.
// The plain format keeps lifecycle logs on the console writer; the observable
// diagnostics are written separately.
func NewLogger(w io.Writer, format, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("parse log-level: %w", err)
	}

	var out io.Writer
	switch format {
	case LogFormatJSON:
		out = w
	case LogFormatPlain, LogFormatConsole:
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log-format %q", format)
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}
