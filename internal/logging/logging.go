// Package logging builds the diagnostic logger.
//
// User-facing output never goes through here; the TUI owns the terminal, so
// logs go to a file or nowhere.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/idilsaglam/klaboard/internal/config"
)

// New returns a logger for cfg and a closer for its file. With debug set,
// logs go to stderr at debug level regardless of cfg.
func New(cfg config.Log, debug bool, stderr io.Writer) (*slog.Logger, func() error, error) {
	nop := func() error { return nil }

	if debug {
		h := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		return slog.New(h), nop, nil
	}
	if cfg.File == "" {
		return slog.New(slog.DiscardHandler), nop, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o700); err != nil {
		return nil, nil, fmt.Errorf("log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	h := slog.NewTextHandler(f, &slog.HandlerOptions{Level: ParseLevel(cfg.Level)})
	return slog.New(h), f.Close, nil
}

// ParseLevel maps a config level name to a slog level. Unknown names are info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
