// Package applog configures the process-wide structured logger and hands out
// component-scoped loggers.
package applog

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// EnvLevel is the environment variable that overrides the configured level.
const EnvLevel = "WMSLABEL_LOG"

// Options controls the logger installed by Init.
type Options struct {
	Level  slog.Level
	JSON   bool
	Output io.Writer // defaults to os.Stderr
}

var (
	mu   sync.RWMutex
	base = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
)

// Init installs a new root logger and makes it the slog default.
func Init(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	hopts := &slog.HandlerOptions{Level: opts.Level}
	var h slog.Handler
	if opts.JSON {
		h = slog.NewJSONHandler(out, hopts)
	} else {
		h = slog.NewTextHandler(out, hopts)
	}
	l := slog.New(h)

	mu.Lock()
	base = l
	mu.Unlock()
	slog.SetDefault(l)
	return l
}

// FromEnv returns options for level, letting WMSLABEL_LOG override it.
func FromEnv(level string) Options {
	if env := os.Getenv(EnvLevel); env != "" {
		level = env
	}
	return Options{Level: LevelFromString(level)}
}

// LevelFromString maps "debug", "info", "warn" and "error" to slog levels.
// Anything else is info.
func LevelFromString(s string) slog.Level {
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

// WithComponent returns the root logger tagged with component=name.
func WithComponent(name string) *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base.With(slog.String("component", name))
}

// Discard is a logger that drops everything, for tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
