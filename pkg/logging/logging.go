// Package logging configures the process-wide slog logger.
//
// Text output is colored with tint and meant for terminals. JSON output is
// for log collectors in production.
//
//	logging.Configure(cfg.Log.Level, cfg.Log.Format)
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Options selects the handler built by New.
type Options struct {
	Level  slog.Level
	Format string // FormatText or FormatJSON; anything else is text
	Writer io.Writer
}

// New returns a logger writing to opts.Writer, or stderr if nil.
func New(opts Options) *slog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	if strings.EqualFold(opts.Format, FormatJSON) {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     opts.Level,
			AddSource: true,
		}))
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      opts.Level,
		TimeFormat: time.Kitchen,
		AddSource:  true,
	}))
}

// Configure sets the default logger from level and format names.
func Configure(level, format string) {
	slog.SetDefault(New(Options{Level: ParseLevel(level), Format: format}))
}

// ParseLevel maps a level name to a slog.Level. Unknown names map to INFO.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
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
