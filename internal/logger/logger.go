// Package logger builds the zap logger used by the server and refresh path.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a production JSON logger, or a colored development logger when
// debug is set.
func New(debug bool) (*zap.Logger, error) {
	if debug {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		l, err := cfg.Build()
		if err != nil {
			return nil, fmt.Errorf("failed to build development logger: %w", err)
		}
		return l, nil
	}
	l, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("failed to build production logger: %w", err)
	}
	return l, nil
}

// Sync flushes buffered entries, ignoring the error stderr returns on some
// platforms.
func Sync(l *zap.Logger) {
	if err := l.Sync(); err != nil {
		_ = err
	}
}
