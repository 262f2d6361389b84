// Package logging sets up the process-wide slog logger.
package logging

import (
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
)

// New returns a logger writing to f: human-readable text on a terminal,
// JSON lines otherwise. Every record carries the run id.
func New(f *os.File, level slog.Level, runID string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		h = slog.NewTextHandler(f, opts)
	} else {
		h = slog.NewJSONHandler(f, opts)
	}
	return slog.New(h).With("run_id", runID)
}

// Setup installs a logger on stderr as the default and returns its run id.
func Setup(verbose bool) string {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	runID := uuid.NewString()
	slog.SetDefault(New(os.Stderr, level, runID))
	return runID
}
