package observability

import (
	"log/slog"
	"os"
	"strings"

	"github.com/couchcryptid/flood-watch/internal/config"
)

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
// JSON output is the default so log shippers get structured records; "text"
// is friendlier for local runs.
func NewLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.ToLower(cfg.LogFormat) == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
