package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"realestate/internal/config"

	"github.com/phsym/console-slog"
	slogmulti "github.com/samber/slog-multi"
	"github.com/samber/oops"
)

// Preinit installs a console logger used until the configuration is loaded
func Preinit() {
	slog.SetDefault(slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{
		AddSource: true,
		Level:     slog.LevelDebug,
	})))
}

// Init builds the process logger from the logging section and makes it the
// slog default. The returned closer releases the log file, if any.
func Init(cfg config.LoggingConfig) (io.Closer, error) {
	level := ParseLevel(cfg.Level)

	handlers := []slog.Handler{NewHandler(os.Stderr, cfg.Format, level)}

	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, oops.In("logging").With("file", cfg.File).Wrapf(err, "failed to open log file")
		}
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
		closer = f
	}

	slog.SetDefault(slog.New(slogmulti.Fanout(handlers...)))

	return closer, nil
}

// NewHandler returns the handler for the given output format
func NewHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	switch strings.ToLower(format) {
	case "console":
		return console.NewHandler(w, &console.HandlerOptions{
			AddSource: true,
			Level:     level,
		})
	case "text":
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	default:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}
}

// ParseLevel maps a level name to slog.Level, defaulting to info
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
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

// Component returns a child of the default logger tagged with a component
// name
func Component(name string) *slog.Logger {
	return slog.Default().With("component", name)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
