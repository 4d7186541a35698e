package app

import (
	"io"
	"log/slog"
)

// newLogger builds the app's logger. It does not set the global logger, so
// several apps can run side by side in tests. Unknown levels fall back to
// warn, which keeps result output readable when logs share a terminal.
func newLogger(levelStr, formatStr string, logW io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		level = slog.LevelWarn
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch formatStr {
	case "json":
		handler = slog.NewJSONHandler(logW, handlerOpts)
	default:
		handler = slog.NewTextHandler(logW, handlerOpts)
	}

	return slog.New(handler).With("app", "specarith")
}
