// Package logging provides the leveled logger capability the core
// subsystems are handed at construction time (spec.md §1: logging is an
// injected external collaborator with levels {trace, info, warn, error,
// critical}). It mirrors the shape of the teacher's
// internal/common.Logger (one method per level), taking a message plus
// structured key/value pairs instead of Printf-style formatting, backed by
// a structured zap logger in place of the teacher's bare log.Logger, per
// DESIGN.md.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the injected logging capability. Every method accepts
// structured key/value pairs in addition to a message, the zap idiom, so
// callers can attach fields like connection id or command name without
// string formatting on the hot path.
type Logger struct {
	sugar *zap.SugaredLogger
}

// Level names the five levels this server's logging capability exposes.
type Level int8

const (
	LevelTrace Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelCritical
)

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case LevelTrace:
		return zapcore.DebugLevel
	case LevelInfo:
		return zapcore.InfoLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	case LevelCritical:
		return zapcore.DPanicLevel
	default:
		return zapcore.InfoLevel
	}
}

// New builds a Logger writing structured, colorized console output at or
// above minLevel, matching the teacher's console-only logger but adding
// the trace/critical levels the spec names.
func New(minLevel Level) *Logger {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.Lock(os.Stderr),
		minLevel.zapLevel(),
	)
	return &Logger{sugar: zap.New(core).Sugar()}
}

// Trace logs verbose per-request detail, off by default in production.
func (l *Logger) Trace(msg string, kv ...any) { l.sugar.Debugw(msg, kv...) }

// Info logs routine operational events (accept, shutdown, config load).
func (l *Logger) Info(msg string, kv ...any) { l.sugar.Infow(msg, kv...) }

// Warn logs recoverable anomalies (write error, listener bind skipped).
func (l *Logger) Warn(msg string, kv ...any) { l.sugar.Warnw(msg, kv...) }

// Error logs a failure that terminates the affected unit of work (a
// connection, a sweep) without affecting the rest of the server.
func (l *Logger) Error(msg string, kv ...any) { l.sugar.Errorw(msg, kv...) }

// Critical logs a fatal startup condition at zap's DPanic level, which on
// this non-development logger neither panics nor exits. Unlike zap's Fatal,
// Critical does not call os.Exit itself — the caller decides the exit path
// (spec.md §7: "Startup failures ... exit non-zero" is the orchestrator's
// job, not the logger's).
func (l *Logger) Critical(msg string, kv ...any) {
	l.sugar.WithOptions(zap.AddCallerSkip(0)).DPanicw("CRITICAL: "+msg, kv...)
}

// Sync flushes any buffered log entries. Call before process exit.
func (l *Logger) Sync() {
	_ = l.sugar.Sync()
}
