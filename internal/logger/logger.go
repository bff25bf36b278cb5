package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var levels = map[string]zapcore.Level{
	"debug": zapcore.DebugLevel,
	"info":  zapcore.InfoLevel,
	"warn":  zapcore.WarnLevel,
	"error": zapcore.ErrorLevel,
}

// current is the process-wide logger; nil until Init succeeds
var current *zap.Logger

// Init builds the process logger. Output goes to stderr so log lines never
// interleave with the interactive menu on stdout.
func Init(level, format string) error {
	l, err := Build(level, format)
	if err != nil {
		return err
	}
	current = l
	return nil
}

// Build returns a logger for level ("debug", "info", "warn", "error") and
// format ("json" or "text") without installing it
func Build(level, format string) (*zap.Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := baseConfig(format)
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.MessageKey = "msg"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return l, nil
}

func baseConfig(format string) zap.Config {
	if format == "json" {
		return zap.NewProductionConfig()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Encoding = "console"
	cfg.DisableStacktrace = true
	return cfg
}

func parseLevel(level string) (zapcore.Level, error) {
	if lvl, ok := levels[level]; ok {
		return lvl, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("invalid log level: %s", level)
}

// Sync flushes buffered entries of the process logger
func Sync() error {
	if current == nil {
		return nil
	}
	return current.Sync()
}

// GetZapLogger returns the process logger, or a no-op logger before Init
func GetZapLogger() *zap.Logger {
	if current == nil {
		return zap.NewNop()
	}
	return current
}
