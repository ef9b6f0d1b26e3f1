// Package logging builds the slog loggers used across fontpreview.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// levelOff sits above every standard level.
const levelOff = slog.Level(100)

// New returns a text logger writing to w at the given level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: levelOff}))
}

// LevelFromString converts a level name to a slog.Level.
// Supports: debug, info, warn, error, off (case-insensitive).
// Returns slog.LevelWarn for unrecognized strings.
func LevelFromString(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "off", "none", "quiet":
		return levelOff
	default:
		return slog.LevelWarn
	}
}
