package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger   *zap.Logger
	loggerMu sync.RWMutex
)

// LogLevelEnvVar is the environment variable consulted when no level is given.
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "DAYNIGHT_LOG_LEVEL"

// Options configures Initialize.
type Options struct {
	// Level is one of debug, info, warn, error. Empty falls back to
	// DAYNIGHT_LOG_LEVEL, then info.
	Level string

	// File is the persistent sink. Empty logs to stdout only.
	File string

	// Quiet drops the stdout sink (used under the Windows service manager,
	// where stdout is discarded).
	Quiet bool
}

// ParseLevel maps a level name to a zap level. Unknown names are info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Initialize builds the global logger.
func Initialize(opts Options) error {
	level := opts.Level
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	outputs := []string{}
	if !opts.Quiet {
		outputs = append(outputs, "stdout")
	}
	if opts.File != "" {
		if dir := filepath.Dir(opts.File); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create log directory: %w", err)
			}
		}
		outputs = append(outputs, opts.File)
	}
	if len(outputs) == 0 {
		SetLogger(zap.NewNop())
		return nil
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(ParseLevel(level)),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
	}

	// Colour codes would end up in the log file, so levels stay plain.
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	built, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	SetLogger(built)
	return nil
}

// SetLogger replaces the global logger. Tests use it with zaptest/observer.
func SetLogger(l *zap.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = l
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	loggerMu.RLock()
	l := logger
	loggerMu.RUnlock()
	if l == nil {
		return zap.NewNop()
	}
	return l
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// LogModeDecision records which mode the clock calls for and why.
func LogModeDecision(mode string, now, sunrise, sunset time.Time) {
	Info("Mode decided",
		zap.String("mode", mode),
		zap.Time("now", now),
		zap.String("sunrise", sunrise.Format("15:04")),
		zap.String("sunset", sunset.Format("15:04")),
	)
}

// LogSwitch records the outcome of a switch attempt.
func LogSwitch(mode string, ok bool, err error) {
	if ok {
		Info("Camera switched", zap.String("mode", mode))
		return
	}
	Error("Camera switch failed", zap.String("mode", mode), zap.Error(err))
}

// LogSunTimes records a sun computation. Fallback results are logged at error level.
func LogSunTimes(date, sunrise, sunset time.Time, fallback bool, reason error) {
	fields := []zap.Field{
		zap.String("date", date.Format("2006-01-02")),
		zap.String("sunrise", sunrise.Format("15:04:05 MST")),
		zap.String("sunset", sunset.Format("15:04:05 MST")),
	}
	if fallback {
		Error("Sun computation failed, using fallback times", append(fields, zap.Error(reason))...)
		return
	}
	Info("Sun times computed", fields...)
}

// LogSchedule records a newly built day schedule.
func LogSchedule(date time.Time, actions []string) {
	Info("Schedule built",
		zap.String("date", date.Format("2006-01-02")),
		zap.Strings("actions", actions),
	)
}

// Sync flushes any buffered log entries
func Sync() {
	_ = GetLogger().Sync()
}
