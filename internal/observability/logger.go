package observability

import (
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"

	"ai-patch-suggester/internal/config"
)

type Logger struct {
	*slog.Logger
}

// NewLogger builds the process logger: colorized text locally, JSON elsewhere.
func NewLogger(cfg *config.Config) *Logger {
	level := parseLevel(cfg.LogLevel)

	var handler slog.Handler
	if cfg.Env == "local" {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level: level,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})
	}

	return &Logger{slog.New(handler)}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
