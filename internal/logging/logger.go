package logging

import (
	"io"
	"log/slog"
)

// New creates a JSON slog logger writing to w at the provided level. If the
// level string is invalid it defaults to info. The CLI passes os.Stderr since
// stdout carries the account table.
func New(level string, w io.Writer) *slog.Logger {
	lvl := new(slog.LevelVar)
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl.Set(slog.LevelInfo)
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler)
}

// Discard returns a logger that drops all output. Useful for tests.
func Discard() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError})
	return slog.New(handler)
}
