package logging

import (
	"io"
	"log/slog"
	"os"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// Setup builds a logger writing to w in the given format. debug lowers the
// level from INFO to DEBUG.
func Setup(w io.Writer, format string, debug bool) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	switch format {
	case FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// SetupDefault installs the logger as the slog default
func SetupDefault(w io.Writer, format string, debug bool) *slog.Logger {
	logger := Setup(w, format, debug)
	slog.SetDefault(logger)
	return logger
}
