// Package logging builds the process zap logger.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options control where logs go and how chatty they are.
type Options struct {
	Verbose bool   // debug level instead of warn
	File    string // log file; empty means stderr
	Quiet   bool   // discard everything unless File is set (alt-screen TUI)
}

// New builds a production-config logger. Plain CLI runs default to warn so
// normal output is not interleaved with JSON lines.
func New(opt Options) (*zap.Logger, error) {
	if opt.Quiet && opt.File == "" {
		return zap.NewNop(), nil
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if opt.Verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if opt.File != "" {
		config.OutputPaths = []string{opt.File}
		config.ErrorOutputPaths = []string{opt.File}
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
