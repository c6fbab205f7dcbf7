package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the interface for logging
type Logger interface {
	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Fatal(msg string, fields ...zap.Field)

	With(fields ...zap.Field) Logger
}

// logger wraps zap.Logger to implement our interface
type logger struct {
	*zap.Logger
}

// With returns a new logger with additional fields
func (l *logger) With(fields ...zap.Field) Logger {
	return &logger{Logger: l.Logger.With(fields...)}
}

var globalLogger Logger

// New creates a logger writing console output to the given writer. Verbose
// enables debug level.
func New(verbose bool, writer io.Writer) Logger {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = nil
	}
	cfg.EncoderConfig.TimeKey = ""

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg.EncoderConfig),
		zapcore.AddSync(writer),
		cfg.Level,
	)

	return &logger{Logger: zap.New(core)}
}

// InitGlobal initializes the global logger
func InitGlobal(verbose bool, writer io.Writer) {
	if writer == nil {
		writer = os.Stderr
	}
	globalLogger = New(verbose, writer)
}

// Get returns the global logger, initializing a default one if needed
func Get() Logger {
	if globalLogger == nil {
		InitGlobal(false, os.Stderr)
	}
	return globalLogger
}
