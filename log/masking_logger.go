/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package log

import (
	"errors"
	"fmt"
	"io"

	"github.com/ssgreg/logf"
)

// StringMasker hides secrets in a string.
type StringMasker interface {
	Mask(s string) string
}

// MaskingLogger masks secrets in messages and string-like fields before delegating.
// It keeps bearer tokens and document signatures out of request dumps and transport errors.
type MaskingLogger struct {
	log    FieldLogger
	masker StringMasker
}

// NewMaskingLogger wraps the logger.
func NewMaskingLogger(l FieldLogger, m StringMasker) FieldLogger {
	return MaskingLogger{l, m}
}

// With returns a logger with masked additional fields.
func (l MaskingLogger) With(fs ...Field) FieldLogger {
	return MaskingLogger{l.log.With(l.maskFields(fs)...), l.masker}
}

// Debug logs at "debug" level.
func (l MaskingLogger) Debug(text string, fs ...Field) {
	l.log.Debug(l.masker.Mask(text), l.maskFields(fs)...)
}

// Info logs at "info" level.
func (l MaskingLogger) Info(text string, fs ...Field) {
	l.log.Info(l.masker.Mask(text), l.maskFields(fs)...)
}

// Warn logs at "warn" level.
func (l MaskingLogger) Warn(text string, fs ...Field) {
	l.log.Warn(l.masker.Mask(text), l.maskFields(fs)...)
}

// Error logs at "error" level.
func (l MaskingLogger) Error(text string, fs ...Field) {
	l.log.Error(l.masker.Mask(text), l.maskFields(fs)...)
}

// Debugf logs a formatted message at "debug" level.
func (l MaskingLogger) Debugf(format string, args ...interface{}) {
	l.AtLevel(LevelDebug, func(write LogFunc) { write(fmt.Sprintf(format, args...)) })
}

// Infof logs a formatted message at "info" level.
func (l MaskingLogger) Infof(format string, args ...interface{}) {
	l.AtLevel(LevelInfo, func(write LogFunc) { write(fmt.Sprintf(format, args...)) })
}

// Warnf logs a formatted message at "warn" level.
func (l MaskingLogger) Warnf(format string, args ...interface{}) {
	l.AtLevel(LevelWarn, func(write LogFunc) { write(fmt.Sprintf(format, args...)) })
}

// Errorf logs a formatted message at "error" level.
func (l MaskingLogger) Errorf(format string, args ...interface{}) {
	l.AtLevel(LevelError, func(write LogFunc) { write(fmt.Sprintf(format, args...)) })
}

// AtLevel calls fn with a masking LogFunc if the level is enabled.
func (l MaskingLogger) AtLevel(level Level, fn func(logFunc LogFunc)) {
	l.log.AtLevel(level, func(logFunc LogFunc) {
		fn(func(msg string, fs ...Field) {
			logFunc(l.masker.Mask(msg), l.maskFields(fs)...)
		})
	})
}

// WithLevel returns a masking logger with additional level check.
func (l MaskingLogger) WithLevel(level Level) FieldLogger {
	return MaskingLogger{l.log.WithLevel(level), l.masker}
}

// maskFields returns fields unchanged (same slice) if nothing was masked.
func (l MaskingLogger) maskFields(fields []Field) []Field {
	var result []Field
	replace := func(i int, f Field) {
		if result == nil {
			result = make([]Field, len(fields))
			copy(result, fields)
		}
		result[i] = f
	}

	for i, field := range fields {
		switch field.Type {
		case logf.FieldTypeBytesToString:
			s := string(field.Bytes)
			if masked := l.masker.Mask(s); masked != s {
				replace(i, String(field.Key, masked))
			}
		case logf.FieldTypeBytes, logf.FieldTypeRawBytes:
			s := string(field.Bytes)
			if masked := l.masker.Mask(s); masked != s {
				replace(i, logf.ConstBytes(field.Key, []byte(masked)))
			}
		case logf.FieldTypeError:
			err, ok := field.Any.(error)
			if !ok || err == nil {
				continue
			}
			s := err.Error()
			if masked := l.masker.Mask(s); masked != s {
				replace(i, NamedError(field.Key, l.newMaskedError(err, masked)))
			}
		}
	}

	if result == nil {
		return fields
	}
	return result
}

func (l MaskingLogger) newMaskedError(err error, masked string) error {
	if _, ok := err.(fmt.Formatter); ok {
		return maskedError{s: masked, verbose: l.masker.Mask(fmt.Sprintf("%+v", err))}
	}
	return errors.New(masked)
}

// maskedError keeps the masked verbose form for logf's "error_verbose" field.
type maskedError struct {
	s       string
	verbose string
}

func (e maskedError) Error() string {
	return e.s
}

func (e maskedError) Format(f fmt.State, _ rune) {
	_, _ = io.WriteString(f, e.verbose)
}
