// Package logging constructs the zerolog logger shared by all Rin components.
// The logger is built once from config and passed explicitly into every
// constructor; nothing in this module logs through a package-level global.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/PSkinnerTech/rin-v0-extended/internal/config"
)

// New builds a logger from the given logging configuration. Console output
// goes to stderr in human-readable form; when cfg.File is set, a second
// JSON sink is appended to that file.
func New(cfg config.LoggingConfig) (zerolog.Logger, error) {
	level := parseLevel(cfg.Level)

	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}

	var out io.Writer = console
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return zerolog.Nop(), fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("open log file: %w", err)
		}
		out = zerolog.MultiLevelWriter(console, f)
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return logger, nil
}

// Quiet returns a logger that discards everything. Used by tests and by
// commands that must keep stdout/stderr clean for their own output.
func Quiet() zerolog.Logger {
	return zerolog.Nop()
}

// parseLevel maps a config string onto a zerolog level, defaulting to info.
func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
