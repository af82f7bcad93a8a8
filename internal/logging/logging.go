// Package logging wraps a process-wide zap sugared logger.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var sugar = zap.NewNop().Sugar()

// Init builds the global logger. format "console" gives colored,
// human-readable output; anything else is JSON.
func Init(level, format string) error {
	var cfg zap.Config
	if format == "console" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
	}

	atomic := zap.NewAtomicLevel()
	if err := atomic.UnmarshalText([]byte(level)); err != nil {
		atomic.SetLevel(zap.InfoLevel)
	}
	cfg.Level = atomic
	cfg.OutputPaths = []string{"stdout"}

	logger, err := cfg.Build()
	if err != nil {
		return err
	}
	sugar = logger.Sugar()
	return nil
}

func Infof(template string, args ...interface{}) {
	sugar.Infof(template, args...)
}

// Infow logs a message with key/value pairs.
func Infow(msg string, keysAndValues ...interface{}) {
	sugar.Infow(msg, keysAndValues...)
}

func Warnf(template string, args ...interface{}) {
	sugar.Warnf(template, args...)
}

func Errorf(template string, args ...interface{}) {
	sugar.Errorf(template, args...)
}

// Error logs msg at error level with err attached.
func Error(msg string, err error) {
	sugar.Errorw(msg, "error", err)
}

func Fatal(msg string, err error) {
	sugar.Fatalw(msg, "error", err)
}

func Sync() {
	_ = sugar.Sync()
}
