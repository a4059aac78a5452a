// Package logging builds the slog loggers snibbets writes diagnostics to.
//
// Levels and format come from the environment:
//   - SNIBBETS_LOG_LEVEL: debug, info, warn, error (default: warn)
//   - SNIBBETS_LOG_FORMAT: text, json (default: text)
//
// Loggers always write to stderr unless told otherwise. Stdout carries
// snippet output that a launcher or a shell pipeline consumes.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Environment variables read by FromEnv.
const (
	EnvLevel  = "SNIBBETS_LOG_LEVEL"
	EnvFormat = "SNIBBETS_LOG_FORMAT"
)

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Config describes one logger.
type Config struct {
	Level     slog.Level
	JSON      bool
	Output    io.Writer // nil means os.Stderr
	Component string    // attached to every record as "component"
}

// DefaultConfig is quiet: only warnings and errors reach the terminal
// while a user is reading snippets.
func DefaultConfig(component string) Config {
	return Config{
		Level:     LevelWarn,
		Component: component,
	}
}

// FromEnv returns DefaultConfig with the SNIBBETS_LOG_* overrides applied.
// Unknown values are ignored.
func FromEnv(component string) Config {
	cfg := DefaultConfig(component)
	if level, ok := ParseLevel(os.Getenv(EnvLevel)); ok {
		cfg.Level = level
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvFormat))) {
	case "json":
		cfg.JSON = true
	case "text":
		cfg.JSON = false
	}
	return cfg
}

// Verbose lowers the level to debug when on is set, as --verbose does.
func (c Config) Verbose(on bool) Config {
	if on {
		c.Level = LevelDebug
	}
	return c
}

// ParseLevel maps a level name to a slog level. It reports false for
// empty or unknown names.
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	default:
		return LevelWarn, false
	}
}

// New builds a logger from cfg.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: cfg.Level}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	logger := slog.New(handler)
	if cfg.Component != "" {
		logger = logger.With("component", cfg.Component)
	}
	return logger
}

// Default returns the environment configured logger for component.
func Default(component string) *slog.Logger {
	return New(FromEnv(component))
}

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
