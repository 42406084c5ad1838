package log

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type zapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger builds a console zap logger at the given level ("debug",
// "info", "warn"). It also returns the underlying *zap.Logger for components
// that take one directly.
func NewZapLogger(level string) (Logger, *zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	z, err := cfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("cfg.Build() %w", err)
	}
	return &zapLogger{sugar: z.Sugar()}, z, nil
}

// FromZap wraps an existing zap logger.
func FromZap(z *zap.Logger) Logger {
	return &zapLogger{sugar: z.Sugar()}
}

func (l *zapLogger) Infof(format string, v ...interface{}) {
	l.sugar.Infof(format, v...)
}

func (l *zapLogger) Debugf(format string, v ...interface{}) {
	l.sugar.Debugf(format, v...)
}

func (l *zapLogger) Warnf(format string, v ...interface{}) {
	l.sugar.Warnf(format, v...)
}
