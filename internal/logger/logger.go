// Package logger builds the process-wide zap logger.
//
// Development: colored console output at debug level.
// Production: JSON at info level.
// LOG_LEVEL overrides the level in both. When a file path is set, entries are
// also written there as JSON through a size-rotated lumberjack writer.
package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects the logger flavour. The zero value is a development
// console logger.
type Options struct {
	Production bool   // JSON encoder, info level by default
	Level      string // debug, info, warn, error; empty picks the env default
	File       string // optional rotating log file
}

// New builds a logger for opts.
func New(opts Options) (*zap.Logger, error) {
	production := opts.Production

	level, err := parseLevel(opts.Level, production)
	if err != nil {
		return nil, err
	}

	var encoder zapcore.Encoder
	if production {
		cfg := zap.NewProductionEncoderConfig()
		cfg.TimeKey = "timestamp"
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncodeCaller = zapcore.ShortCallerEncoder
		encoder = zapcore.NewJSONEncoder(cfg)
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
		cfg.EncodeCaller = zapcore.ShortCallerEncoder
		encoder = zapcore.NewConsoleEncoder(cfg)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level),
	}
	if opts.File != "" {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(newRotator(opts.File)),
			level,
		))
	}

	zapOpts := []zap.Option{zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)}
	if !production {
		zapOpts = append(zapOpts, zap.Development())
	}
	return zap.New(zapcore.NewTee(cores...), zapOpts...), nil
}

// Init builds a logger and installs it as the zap global, so packages can log
// through zap.L(). The returned func flushes buffered entries.
func Init(opts Options) (func(), error) {
	l, err := New(opts)
	if err != nil {
		return nil, err
	}
	restore := zap.ReplaceGlobals(l)
	return func() {
		_ = l.Sync()
		restore()
	}, nil
}

func parseLevel(s string, production bool) (zap.AtomicLevel, error) {
	if s == "" {
		if production {
			return zap.NewAtomicLevelAt(zapcore.InfoLevel), nil
		}
		return zap.NewAtomicLevelAt(zapcore.DebugLevel), nil
	}
	l, err := zapcore.ParseLevel(s)
	if err != nil {
		return zap.AtomicLevel{}, fmt.Errorf("parse log level %q: %w", s, err)
	}
	return zap.NewAtomicLevelAt(l), nil
}

func newRotator(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    50, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	}
}
