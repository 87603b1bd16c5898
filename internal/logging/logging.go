// Package logging wraps log/slog behind a small Logger interface so the
// simulator, the session store and the gRPC layer log the same way and tests
// can swap in Noop.
package logging

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Field is one structured attribute.
type Field struct {
	Key   string
	Value any
}

func String(key, value string) Field             { return Field{key, value} }
func Int(key string, value int) Field            { return Field{key, value} }
func Float64(key string, value float64) Field    { return Field{key, value} }
func Bool(key string, value bool) Field          { return Field{key, value} }
func Duration(key string, d time.Duration) Field { return Field{key, d} }

// Err records err under "error". A nil error yields a nil value.
func Err(err error) Field {
	if err == nil {
		return Field{"error", nil}
	}
	return Field{"error", err.Error()}
}

type Logger interface {
	Debug(ctx context.Context, msg string, fields ...Field)
	Info(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)
	With(fields ...Field) Logger
}

// Config selects level ("debug", "info", "warn", "error"), format ("json"
// or "text") and whether records carry their source location.
type Config struct {
	Level     string
	Format    string
	AddSource bool
}

// New logs to stdout.
func New(cfg Config) Logger {
	return NewWithWriter(cfg, os.Stdout)
}

func NewWithWriter(cfg Config, w io.Writer) Logger {
	opts := &slog.HandlerOptions{Level: levelOf(cfg.Level), AddSource: cfg.AddSource}
	if strings.EqualFold(cfg.Format, "json") {
		return slogLogger{slog.New(slog.NewJSONHandler(w, opts))}
	}
	return slogLogger{slog.New(slog.NewTextHandler(w, opts))}
}

// levelOf falls back to info for anything slog cannot parse.
func levelOf(name string) slog.Level {
	if strings.EqualFold(name, "warning") {
		return slog.LevelWarn
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

type slogLogger struct {
	l *slog.Logger
}

func (s slogLogger) emit(ctx context.Context, lvl slog.Level, msg string, fields []Field) {
	if !s.l.Enabled(ctx, lvl) {
		return
	}
	attrs := make([]slog.Attr, len(fields))
	for i, f := range fields {
		attrs[i] = slog.Any(f.Key, f.Value)
	}
	s.l.LogAttrs(ctx, lvl, msg, attrs...)
}

func (s slogLogger) Debug(ctx context.Context, msg string, f ...Field) {
	s.emit(ctx, slog.LevelDebug, msg, f)
}
func (s slogLogger) Info(ctx context.Context, msg string, f ...Field) {
	s.emit(ctx, slog.LevelInfo, msg, f)
}
func (s slogLogger) Warn(ctx context.Context, msg string, f ...Field) {
	s.emit(ctx, slog.LevelWarn, msg, f)
}
func (s slogLogger) Error(ctx context.Context, msg string, f ...Field) {
	s.emit(ctx, slog.LevelError, msg, f)
}

func (s slogLogger) With(fields ...Field) Logger {
	args := make([]any, 0, 2*len(fields))
	for _, f := range fields {
		args = append(args, f.Key, f.Value)
	}
	return slogLogger{s.l.With(args...)}
}

// Noop discards everything.
func Noop() Logger { return noop{} }

type noop struct{}

func (noop) Debug(context.Context, string, ...Field) {}
func (noop) Info(context.Context, string, ...Field)  {}
func (noop) Warn(context.Context, string, ...Field)  {}
func (noop) Error(context.Context, string, ...Field) {}
func (noop) With(...Field) Logger                    { return noop{} }

// Per-request state rides on the context under a single key; each setter
// copies it so parent contexts are unaffected.
type scopeKey struct{}

type scope struct {
	requestID string
	logger    Logger
}

func scopeOf(ctx context.Context) scope {
	if ctx == nil {
		return scope{}
	}
	sc, _ := ctx.Value(scopeKey{}).(scope)
	return sc
}

func withScope(ctx context.Context, sc scope) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, scopeKey{}, sc)
}

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	sc := scopeOf(ctx)
	sc.requestID = id
	return withScope(ctx, sc)
}

// RequestIDFromContext returns "" when no id was attached.
func RequestIDFromContext(ctx context.Context) string {
	return scopeOf(ctx).requestID
}

// EnsureRequestID keeps an existing id or generates a fresh one.
func EnsureRequestID(ctx context.Context) (context.Context, string) {
	if id := RequestIDFromContext(ctx); id != "" {
		return ctx, id
	}
	id := newRequestID()
	return ContextWithRequestID(ctx, id), id
}

// WithRequestLogger returns base annotated with the context's request id,
// generating one when absent.
func WithRequestLogger(ctx context.Context, base Logger) (context.Context, Logger) {
	if base == nil {
		base = Noop()
	}
	ctx, id := EnsureRequestID(ctx)
	return ctx, base.With(String("request_id", id))
}

func ContextWithLogger(ctx context.Context, l Logger) context.Context {
	if l == nil {
		l = Noop()
	}
	sc := scopeOf(ctx)
	sc.logger = l
	return withScope(ctx, sc)
}

// LoggerFromContext returns nil when no logger was stored.
func LoggerFromContext(ctx context.Context) Logger {
	return scopeOf(ctx).logger
}

func newRequestID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "req-unknown"
	}
	return "req-" + hex.EncodeToString(b)
}
