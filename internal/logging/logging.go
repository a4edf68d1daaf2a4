// Package logging wires slog to a tint terminal handler, or to a plain text
// handler when logging to a file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Setup builds the application logger. With an empty file, logs go to stderr
// through tint; otherwise they are appended to the file as plain text so the
// TUI keeps the terminal to itself. The returned closer is a no-op for
// stderr.
func Setup(level, file string) (*slog.Logger, func() error, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, nil, err
	}

	if file == "" {
		handler := tint.NewHandler(os.Stderr, &tint.Options{
			Level:   lvl,
			NoColor: !isatty.IsTerminal(os.Stderr.Fd()),
		})
		return slog.New(handler), func() error { return nil }, nil
	}

	f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	handler := slog.NewTextHandler(f, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler), f.Close, nil
}

// Discard returns a logger that drops everything, for tests and preview
// output that must stay clean.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func parseLevel(level string) (slog.Level, error) {
	switch level {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid log level %q", level)
}
