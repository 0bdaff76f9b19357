// Copyright (c) 2026 Scribe Team
// Scribe - multi-user blogging application
// This source code is licensed under the MIT license found in the LICENSE file.

// Package logging holds the process-wide logger and the small formatted
// helpers the rest of Scribe calls.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	clog "github.com/charmbracelet/log"
)

// L is the package-level logger. Callers should use the helper functions
// below unless they need structured key/value pairs.
var L = clog.New(os.Stderr)

// Options controls how Setup configures L.
type Options struct {
	Level     string
	File      string
	MaxSizeMB int
	MaxFiles  int
	JSON      bool
}

// Setup replaces L with a logger built from opts. When opts.File is set,
// output goes to a rotating file in addition to stderr. The returned closer
// releases the file; it is a no-op when no file is configured.
func Setup(opts Options) (io.Closer, error) {
	var out io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}

	if opts.File != "" {
		rw, err := NewRotatingWriter(RotationConfig{
			File:      opts.File,
			MaxSizeMB: opts.MaxSizeMB,
			MaxFiles:  opts.MaxFiles,
		})
		if err != nil {
			return nil, err
		}
		out = io.MultiWriter(os.Stderr, rw)
		closer = rw
	}

	level := clog.InfoLevel
	if strings.TrimSpace(opts.Level) != "" {
		parsed, err := clog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			_ = closer.Close()
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	logger := clog.NewWithOptions(out, clog.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "scribe",
	})
	if opts.JSON {
		logger.SetFormatter(clog.JSONFormatter)
	}
	L = logger
	return closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Debugf logs a debug-level formatted message.
func Debugf(format string, v ...interface{}) {
	L.Debug(fmt.Sprintf(format, v...))
}

// Infof logs an info-level formatted message.
func Infof(format string, v ...interface{}) {
	L.Info(fmt.Sprintf(format, v...))
}

// Warnf logs a warning-level formatted message.
func Warnf(format string, v ...interface{}) {
	L.Warn(fmt.Sprintf(format, v...))
}

// Errorf logs an error-level formatted message.
func Errorf(format string, v ...interface{}) {
	L.Error(fmt.Sprintf(format, v...))
}
