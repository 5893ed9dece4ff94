/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package log provides structured logging for the registry client and the CLI.
// FieldLogger is backed by logf and writes JSON or colored text to stdout, stderr or a rotated file.
package log

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ssgreg/logf"
	"github.com/ssgreg/logftext"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Field is a single key-value pair of a log entry.
type Field = logf.Field

// CloseFunc flushes buffered entries and stops the background writer.
type CloseFunc logf.ChannelWriterCloseFunc

// LogFunc logs a message at a bound level.
// nolint: revive
type LogFunc = logf.LogFunc

// Field constructors.
var (
	Error      = logf.Error
	NamedError = logf.NamedError
	String     = logf.String
	Strings    = logf.Strings
	Bytes      = logf.Bytes
	Int        = logf.Int
	Int64      = logf.Int64
	Float64    = logf.Float64
	Bool       = logf.Bool
	Duration   = logf.Duration
	Time       = logf.Time
	Any        = logf.Any
)

// DurationIn returns a "duration" field measured in the given unit.
func DurationIn(val, unit time.Duration) Field {
	return Int64("duration", val.Nanoseconds()/unit.Nanoseconds())
}

// FieldLogger writes log entries in a structured format.
type FieldLogger interface {
	With(...Field) FieldLogger

	Debug(string, ...Field)
	Info(string, ...Field)
	Warn(string, ...Field)
	Error(string, ...Field)

	Debugf(string, ...interface{})
	Infof(string, ...interface{})
	Warnf(string, ...interface{})
	Errorf(string, ...interface{})

	AtLevel(Level, func(LogFunc))
	WithLevel(level Level) FieldLogger
}

// LogfAdapter implements FieldLogger on top of logf.Logger.
type LogfAdapter struct {
	Logger *logf.Logger
}

// NewDisabledLogger returns a logger that drops everything.
func NewDisabledLogger() FieldLogger {
	return &LogfAdapter{logf.NewDisabledLogger()}
}

// NewLogger creates a logger according to the configuration.
// The returned CloseFunc must be called before the process exits to flush pending entries.
func NewLogger(cfg *Config) (FieldLogger, CloseFunc) {
	appender := newAppender(cfg)
	channel, closeFunc := logf.NewChannelWriter(logf.ChannelWriterConfig{
		Appender:          appender,
		EnableSyncOnError: true,
	})
	logfLogger := logf.NewLogger(toLogfLevel(cfg.Level), channel).With(logf.Int("pid", os.Getpid()))
	if cfg.AddCaller {
		// Skip the adapter frame so the caller points to the code that logs.
		logfLogger = logfLogger.WithCaller().WithCallerSkip(1)
	}

	var logger FieldLogger = &LogfAdapter{logfLogger}
	if cfg.Masking.Enabled {
		rules := cfg.Masking.Rules
		if cfg.Masking.UseDefaultRules {
			rules = append(rules, DefaultMaskingRules...)
		}
		logger = NewMaskingLogger(logger, NewMasker(rules))
	}
	return logger, CloseFunc(closeFunc)
}

// With returns a logger that adds the fields to every entry.
func (l *LogfAdapter) With(fs ...Field) FieldLogger {
	return &LogfAdapter{l.Logger.With(fs...)}
}

// Debug logs at "debug" level.
func (l *LogfAdapter) Debug(s string, fields ...Field) {
	l.Logger.Debug(s, fields...)
}

// Info logs at "info" level.
func (l *LogfAdapter) Info(s string, fields ...Field) {
	l.Logger.Info(s, fields...)
}

// Warn logs at "warn" level.
func (l *LogfAdapter) Warn(s string, fields ...Field) {
	l.Logger.Warn(s, fields...)
}

// Error logs at "error" level.
func (l *LogfAdapter) Error(s string, fields ...Field) {
	l.Logger.Error(s, fields...)
}

// Debugf logs a formatted message at "debug" level.
func (l *LogfAdapter) Debugf(format string, args ...interface{}) {
	l.logf(LevelDebug, format, args...)
}

// Infof logs a formatted message at "info" level.
func (l *LogfAdapter) Infof(format string, args ...interface{}) {
	l.logf(LevelInfo, format, args...)
}

// Warnf logs a formatted message at "warn" level.
func (l *LogfAdapter) Warnf(format string, args ...interface{}) {
	l.logf(LevelWarn, format, args...)
}

// Errorf logs a formatted message at "error" level.
func (l *LogfAdapter) Errorf(format string, args ...interface{}) {
	l.logf(LevelError, format, args...)
}

// formatting is skipped when the level is disabled
func (l *LogfAdapter) logf(level Level, format string, args ...interface{}) {
	l.AtLevel(level, func(write LogFunc) {
		write(fmt.Sprintf(format, args...))
	})
}

// AtLevel calls fn only if the level is enabled.
func (l *LogfAdapter) AtLevel(level Level, fn func(logFunc LogFunc)) {
	l.Logger.AtLevel(toLogfLevel(level), fn)
}

// WithLevel returns a logger that additionally drops entries below the level.
// It can only raise the effective level, never lower it.
func (l *LogfAdapter) WithLevel(level Level) FieldLogger {
	return &LogfAdapter{Logger: l.Logger.WithLevel(toLogfLevel(level))}
}

func toLogfLevel(value Level) logf.Level {
	switch value {
	case LevelError:
		return logf.LevelError
	case LevelWarn:
		return logf.LevelWarn
	case LevelDebug:
		return logf.LevelDebug
	}
	return logf.LevelInfo
}

func newAppender(cfg *Config) logf.Appender {
	switch cfg.Output {
	case OutputFile:
		return newAppenderWithWriter(cfg, &lumberjack.Logger{
			Filename:   expandFilePath(cfg.File.Path),
			MaxSize:    int(cfg.File.Rotation.MaxSize / 1024 / 1024),
			MaxBackups: cfg.File.Rotation.MaxBackups,
			MaxAge:     cfg.File.Rotation.MaxAgeDays,
			Compress:   cfg.File.Rotation.Compress,
			LocalTime:  cfg.File.Rotation.LocalTimeInNames,
		})
	case OutputStderr:
		return newAppenderWithWriter(cfg, os.Stderr)
	}
	return newAppenderWithWriter(cfg, os.Stdout)
}

func newAppenderWithWriter(cfg *Config, w io.Writer) logf.Appender {
	var errorEncoder logf.ErrorEncoder
	if cfg.ErrorVerboseSuffix != "" || cfg.ErrorNoVerbose {
		errorEncoder = logf.NewErrorEncoder(logf.ErrorEncoderConfig{
			NoVerboseField:     cfg.ErrorNoVerbose,
			VerboseFieldSuffix: cfg.ErrorVerboseSuffix,
		})
	}

	if cfg.Format == FormatText {
		noColor := cfg.NoColor
		return logftext.NewAppender(w, logftext.EncoderConfig{
			NoColor:     &noColor,
			EncodeTime:  logf.RFC3339NanoTimeEncoder,
			EncodeError: errorEncoder,
		})
	}
	return logf.NewWriteAppender(w, logf.NewJSONEncoder(logf.JSONEncoderConfig{
		EncodeTime:   logf.RFC3339NanoTimeEncoder,
		EncodeError:  errorEncoder,
		FieldKeyTime: "time",
	}))
}

// expandFilePath replaces {{pid}} and {{starttime}} placeholders in the log file path.
func expandFilePath(path string) string {
	return strings.NewReplacer(
		"{{pid}}", strconv.Itoa(os.Getpid()),
		"{{starttime}}", time.Now().Format("200601021504"),
	).Replace(path)
}
