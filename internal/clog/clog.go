// Package clog provides categorized structured logging for contractmodel's
// drivers, adapted from codeNERD's per-category logging convention
// (internal/logging) but backed directly by zap rather than a hand-rolled
// file-per-category writer, and collapsed to the five categories this
// engine's components actually need: generation, shrinking, mock, verify,
// and proxy.
package clog

import "go.uber.org/zap"

// Category names one of the engine's five log streams.
type Category string

const (
	CategoryGeneration Category = "generation"
	CategoryShrinking  Category = "shrinking"
	CategoryMock       Category = "mock"
	CategoryVerify     Category = "verify"
	CategoryProxy      Category = "proxy"
)

// Logger wraps a *zap.Logger, pre-tagged with a category so call sites don't
// repeat zap.String("category", ...) at every call.
type Logger struct {
	z   *zap.Logger
	cat Category
}

// New builds a Logger for cat from base. Passing a nil base yields a no-op
// logger (zap.NewNop()), so components work without a logger configured.
func New(base *zap.Logger, cat Category) *Logger {
	if base == nil {
		base = zap.NewNop()
	}
	return &Logger{z: base.With(zap.String("category", string(cat))), cat: cat}
}

// Nop returns a Logger that discards everything. It is the same as New with a
// nil base, which is what a driver gets when no zap logger is supplied.
func Nop(cat Category) *Logger {
	return New(nil, cat)
}

func (l *Logger) Debug(msg string, fields ...zap.Field) { l.z.Debug(msg, fields...) }
func (l *Logger) Info(msg string, fields ...zap.Field)  { l.z.Info(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...zap.Field)  { l.z.Warn(msg, fields...) }
func (l *Logger) Error(msg string, fields ...zap.Field) { l.z.Error(msg, fields...) }
