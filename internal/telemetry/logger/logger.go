package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
)

// Logger is the logging surface used across cmsadmin. Every method is
// safe for concurrent use.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	WithContext(ctx context.Context) Logger
}

// Config selects level, encoding and destination.
type Config struct {
	Level  string    // debug, info, warn or error
	Format string    // text (or console) and json
	Output io.Writer // nil means os.Stderr
	File   string    // appended to instead of Output when set
}

// DefaultConfig logs warnings as text so command output stays readable.
func DefaultConfig() Config {
	return Config{Level: "warn", Format: "text", Output: os.Stderr}
}

// level is shared by every logger New builds, so SetLevel reaches loggers
// already handed out.
var level = new(slog.LevelVar)

type slogLogger struct {
	logger *slog.Logger
	ctx    context.Context
	closer io.Closer
}

// New builds a logger from cfg and makes cfg.Level the process level.
// A File output is created with owner-only permissions; release it with
// Close.
func New(cfg Config) (Logger, error) {
	w, closer, err := openOutput(cfg)
	if err != nil {
		return nil, err
	}
	level.Set(parseLevel(cfg.Level))
	return &slogLogger{
		logger: slog.New(newHandler(cfg.Format, w)),
		ctx:    context.Background(),
		closer: closer,
	}, nil
}

func openOutput(cfg Config) (io.Writer, io.Closer, error) {
	if cfg.File == "" {
		if cfg.Output == nil {
			return os.Stderr, nil, nil
		}
		return cfg.Output, nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o700); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, f, nil
}

func newHandler(format string, w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			return redactSensitive(a)
		},
	}
	switch strings.ToLower(format) {
	case "text", "console":
		return slog.NewTextHandler(w, opts)
	default:
		return slog.NewJSONHandler(w, opts)
	}
}

// Close releases the log file behind l, if any. Loggers derived with With
// or WithContext share the file, so only the root should be closed.
func Close(l Logger) error {
	sl, ok := l.(*slogLogger)
	if !ok || sl.closer == nil {
		return nil
	}
	return sl.closer.Close()
}

// Slog returns the *slog.Logger behind l for libraries that take one.
// Foreign implementations map to slog.Default().
func Slog(l Logger) *slog.Logger {
	if sl, ok := l.(*slogLogger); ok {
		return sl.logger
	}
	return slog.Default()
}

// SetLevel changes the level of every logger at once. Unknown names mean
// info.
func SetLevel(name string) {
	level.Set(parseLevel(name))
}

// GetLevel reports the current level name.
func GetLevel() string {
	return strings.ToLower(level.Level().String())
}

func parseLevel(name string) slog.Level {
	if strings.EqualFold(name, "warning") {
		return slog.LevelWarn
	}
	var l slog.Level
	// UnmarshalText also takes offsets such as "info+2"; only the four
	// plain names are supported.
	if err := l.UnmarshalText([]byte(name)); err != nil || strings.ContainsAny(name, "+-") {
		return slog.LevelInfo
	}
	return l
}

func (l *slogLogger) log(lvl slog.Level, msg string, args []any) {
	l.logger.Log(l.ctx, lvl, msg, args...)
}

func (l *slogLogger) Debug(msg string, args ...any) { l.log(slog.LevelDebug, msg, args) }
func (l *slogLogger) Info(msg string, args ...any)  { l.log(slog.LevelInfo, msg, args) }
func (l *slogLogger) Warn(msg string, args ...any)  { l.log(slog.LevelWarn, msg, args) }
func (l *slogLogger) Error(msg string, args ...any) { l.log(slog.LevelError, msg, args) }

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{logger: l.logger.With(args...), ctx: l.ctx}
}

func (l *slogLogger) WithContext(ctx context.Context) Logger {
	return &slogLogger{logger: l.logger, ctx: ctx}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return &slogLogger{
		logger: slog.New(slog.DiscardHandler),
		ctx:    context.Background(),
	}
}

var fallback atomic.Pointer[slogLogger]

func init() {
	l, _ := New(DefaultConfig())
	fallback.Store(l.(*slogLogger))
}

// SetDefault replaces the process logger. Implementations from other
// packages are ignored.
func SetDefault(l Logger) {
	if sl, ok := l.(*slogLogger); ok {
		fallback.Store(sl)
	}
}

// Default returns the process logger.
func Default() Logger {
	return fallback.Load()
}

func Debug(msg string, args ...any) { fallback.Load().Debug(msg, args...) }
func Info(msg string, args ...any)  { fallback.Load().Info(msg, args...) }
func Warn(msg string, args ...any)  { fallback.Load().Warn(msg, args...) }
func Error(msg string, args ...any) { fallback.Load().Error(msg, args...) }
