// Package logging configures the process-wide slog logger.
//
// The proxy logs to stdout. The terminal client owns the screen, so it logs to a
// file under the user's config directory instead.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Options select the handler format and destination.
type Options struct {
	Env   string // "development" selects the text handler
	Debug bool
	// Path writes to a file when set; otherwise Output (or stdout) is used.
	Path   string
	Output io.Writer
}

const defaultLogName = "cinesearch.log"

// Init installs the default logger and returns a close func for the sink.
func Init(opts Options) (*slog.Logger, func() error, error) {
	out := opts.Output
	closeFn := func() error { return nil }

	if path := strings.TrimSpace(opts.Path); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, closeFn, fmt.Errorf("create log dir: %w", err)
		}
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, closeFn, fmt.Errorf("open log file: %w", err)
		}
		out = file
		closeFn = file.Close
	}
	if out == nil {
		out = os.Stdout
	}

	handlerOpts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if opts.Debug {
		handlerOpts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if opts.Debug || opts.Env == "development" || opts.Path != "" {
		// Text is easier to read when tailed from inside the TUI.
		handler = slog.NewTextHandler(out, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(out, handlerOpts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, closeFn, nil
}

// DefaultPath returns the client log location, falling back to the temp dir.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), defaultLogName)
	}
	return filepath.Join(dir, "cinesearch", defaultLogName)
}

// Discard returns a logger that drops everything. Useful for tests and nil options.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
