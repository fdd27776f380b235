package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the logger for one binary of the ops backend. Every entry
// carries the service name so api and dedupe output can share a sink.
// An unknown level falls back to info. The returned func flushes buffered
// entries and should be deferred.
func New(level, env, service string) (*zap.Logger, func(), error) {
	var cfg zap.Config
	if strings.EqualFold(env, "production") {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	log, err := cfg.Build(
		zap.AddStacktrace(zap.ErrorLevel),
		zap.Fields(zap.String("service", service)),
	)
	if err != nil {
		return nil, func() {}, err
	}
	return log, func() { _ = log.Sync() }, nil
}

func parseLevel(s string) zapcore.Level {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(s)))); err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}
