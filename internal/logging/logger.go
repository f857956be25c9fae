package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

type Options struct {
	Level   string
	Writer  io.Writer
	Channel string
}

// NewLogger builds the JSON logger used across the client. Workers pass their
// channel name so every line can be traced back to one connection.
func NewLogger(opts Options) *slog.Logger {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}
	h := slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: parseLevel(opts.Level)})
	lg := slog.New(h)
	if strings.TrimSpace(opts.Channel) != "" {
		lg = lg.With("channel", strings.TrimSpace(opts.Channel))
	}
	return lg
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
