// Package logging builds the zap loggers used across the law cache service.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// serviceName tags every entry so aggregated logs from co-located
// services stay attributable.
const serviceName = "leiscache"

// New builds the service logger. Development mode uses the console
// encoder with colored levels for reading scheduler output locally;
// production emits JSON with stacktraces kept on for error entries.
func New(development bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.DisableStacktrace = false
	cfg.InitialFields = map[string]any{"service": serviceName}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build %s logger: %w", serviceName, err)
	}
	return logger, nil
}
