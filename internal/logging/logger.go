package logging

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"dailymatch-engine/internal/config"
)

var (
	global   *zap.Logger
	globalMu sync.RWMutex
)

// New builds a zap logger from the logging section of the config.
func New(cfg *config.Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	}

	encoding := "console"
	if cfg.Logging.Format == "json" {
		encoding = "json"
	}

	zcfg := zap.Config{
		Encoding:         encoding,
		Level:            zap.NewAtomicLevelAt(level),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "msg",

			LevelKey:    "level",
			EncodeLevel: zapcore.LowercaseLevelEncoder,

			TimeKey:    "time",
			EncodeTime: zapcore.RFC3339TimeEncoder,

			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,
		},
	}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, err
	}

	return logger, nil
}

// SetGlobal replaces the process-wide logger.
func SetGlobal(l *zap.Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	global = l
}

// L returns the process-wide logger, falling back to a no-op logger when
// none was installed (keeps tests quiet).
func L() *zap.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if global == nil {
		return zap.NewNop()
	}
	return global
}
