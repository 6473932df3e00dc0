// Package logging builds the process-wide zap logger.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
)

// Options selects the encoder and an optional rotated log file.
type Options struct {
	Mode string
	File string
}

// New builds a logger. With a file, JSON goes to the rotated file and a
// console copy to stdout.
func New(opts Options) (*zap.Logger, error) {
	var zapConfig zap.Config
	switch opts.Mode {
	case ModeProduction:
		zapConfig = zap.NewProductionConfig()
	case ModeDevelopment, "":
		zapConfig = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown log mode %q", opts.Mode)
	}
	zapConfig.OutputPaths = []string{"stdout"}

	if opts.File == "" {
		logger, err := zapConfig.Build(zap.AddCaller())
		if err != nil {
			return nil, fmt.Errorf("failed to build logger: %w", err)
		}
		return logger, nil
	}

	rotated := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    64,
		MaxBackups: 7,
		MaxAge:     7,
	}
	core := zapcore.NewTee(
		zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(rotated),
			zapConfig.Level,
		),
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.AddSync(os.Stdout),
			zapConfig.Level,
		),
	)
	return zap.New(core, zap.AddCaller()), nil
}

// Setup builds a logger and installs it as the zap global. The returned
// func flushes it.
func Setup(opts Options) (func(), error) {
	logger, err := New(opts)
	if err != nil {
		return nil, err
	}
	restore := zap.ReplaceGlobals(logger)
	return func() {
		_ = logger.Sync()
		restore()
	}, nil
}
