// SPDX-FileCopyrightText: 2025 The Dex Authors
// SPDX-License-Identifier: EUPL-1.2

// Package logging builds the zap logger. Logs go to a file because the
// terminal belongs to the UI.
package logging

import (
	"fmt"
	"path/filepath"

	"github.com/janderssonse/dex/internal/platform"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options select where and how much to log.
type Options struct {
	// Path is the log file. Empty disables logging.
	Path string
	// Level is one of debug, info, warn, error.
	Level string
	// Verbose forces debug level.
	Verbose bool
}

// New builds a JSON file logger. An empty path returns a no-op logger.
func New(opts Options) (*zap.Logger, error) {
	if opts.Path == "" {
		return zap.NewNop(), nil
	}

	level, err := parseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	if err := platform.EnsureDir(filepath.Dir(opts.Path)); err != nil {
		return nil, err
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.OutputPaths = []string{opts.Path}
	config.ErrorOutputPaths = []string{opts.Path}
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Sampling = nil

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return logger.Named("dex"), nil
}

func parseLevel(name string) (zapcore.Level, error) {
	if name == "" {
		return zapcore.InfoLevel, nil
	}

	level, err := zapcore.ParseLevel(name)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", name, err)
	}

	return level, nil
}
