package logging

import (
	"fmt"
	"log/slog"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

// ParseLevel maps debug, info, warn and error onto zap levels. Empty means info.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// NewLogger builds a slog logger backed by a zap production core.
// The returned sync function flushes buffered entries.
func NewLogger(level string) (*slog.Logger, func() error, error) {
	zapLevel, err := ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	zapLogger, err := config.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build zap logger: %w", err)
	}

	handler := zapslog.NewHandler(zapLogger.Core(), zapslog.WithCaller(true))
	return slog.New(handler), zapLogger.Sync, nil
}

// Setup installs the logger as the process wide slog default.
func Setup(level string) (func() error, error) {
	logger, sync, err := NewLogger(level)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return sync, nil
}
