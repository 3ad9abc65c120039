// Package app holds process-level plumbing shared by the entry point:
// logger construction and journal schema migrations.
package app

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// loggerConfig returns the zap configuration for env. Production logs JSON at
// info with ISO8601 timestamps; everything else logs colored console lines at
// debug. A non-empty level overrides the default.
func loggerConfig(env, level string) (zap.Config, error) {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "time"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.OutputPaths = []string{"stdout"}

	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return zap.Config{}, fmt.Errorf("log level %q: %w", level, err)
		}
		cfg.Level = lvl
	}
	return cfg, nil
}

// NewLogger builds the process logger for env at the given level.
func NewLogger(env, level string) (*zap.Logger, error) {
	cfg, err := loggerConfig(env, level)
	if err != nil {
		return nil, err
	}
	logger, err := cfg.Build(zap.Fields(zap.String("env", env)))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
