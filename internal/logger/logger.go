// Package logger provides Aurora's structured logging facade. It wraps
// log/slog with a small functional-options constructor. Calls made through
// a Logger's methods report the caller's source location rather than this
// package's own frames.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/fatih/color"
	slogmulti "github.com/samber/slog-multi"
)

// Logger is the interface every Aurora subsystem depends on. It never
// depends on log/slog directly so callers can be tested with a fake.
type Logger interface {
	Debug(msg string, args ...any)
	Debugf(format string, args ...any)
	Info(msg string, args ...any)
	Infof(format string, args ...any)
	Warn(msg string, args ...any)
	Warnf(format string, args ...any)
	Error(msg string, args ...any)
	Errorf(format string, args ...any)

	// With returns a Logger that always includes the given key/value pairs.
	With(args ...any) Logger
	// WithGroup returns a Logger that nests subsequent attributes under name.
	WithGroup(name string) Logger
}

type slogLogger struct {
	h      slog.Handler
	debug  bool
	color  bool
	writer io.Writer
}

// Option configures a Logger constructed by NewLogger.
type Option func(*config)

type config struct {
	debug  bool
	format string
	writer io.Writer
	quiet  bool
	color  bool
}

// WithDebug enables debug-level logging and source-location reporting.
func WithDebug() Option { return func(c *config) { c.debug = true } }

// WithFormat selects "text" (default) or "json" output.
func WithFormat(format string) Option { return func(c *config) { c.format = format } }

// WithWriter directs log output to w instead of os.Stderr.
func WithWriter(w io.Writer) Option { return func(c *config) { c.writer = w } }

// WithQuiet suppresses the informational banner NewLogger would otherwise
// emit on construction (kept for parity with the teacher's options set;
// Aurora's constructor does not emit a banner, so this is a no-op retained
// for call-site compatibility).
func WithQuiet() Option { return func(c *config) { c.quiet = true } }

// WithColor records whether ANSI color is wanted. The handlers NewLogger
// builds never read this setting, so log output carries no color escapes
// with or without this option.
func WithColor(enabled bool) Option {
	return func(c *config) { c.color = enabled }
}

// Default is a logger writing text to stderr at info level.
var Default Logger = NewLogger()

// NewLogger builds a Logger from the given options.
func NewLogger(opts ...Option) Logger {
	c := &config{format: "text", writer: os.Stderr}
	for _, o := range opts {
		o(c)
	}

	level := slog.LevelInfo
	if c.debug {
		level = slog.LevelDebug
	}

	handlerOpts := &slog.HandlerOptions{
		Level:     level,
		AddSource: c.debug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				a.Value = slog.StringValue(a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}

	var h slog.Handler
	switch c.format {
	case "json":
		h = slog.NewJSONHandler(c.writer, handlerOpts)
	default:
		h = slog.NewTextHandler(c.writer, handlerOpts)
	}

	// slogmulti.Pipe lets Aurora fan a single record out to additional sinks
	// (e.g. a file handler alongside the console one) without changing the
	// call sites; with a single sink it is transparent passthrough.
	h = slogmulti.Pipe(passthroughMiddleware{}).Handler(h)

	return &slogLogger{h: h, debug: c.debug, color: c.color, writer: c.writer}
}

// passthroughMiddleware is the seam where additional slog-multi sinks
// (file tee, remote shipping) would be attached; Aurora's core ships with
// none, keeping behavior identical to a single handler.
type passthroughMiddleware struct{}

func (passthroughMiddleware) Handle(ctx context.Context, r slog.Record, next func(context.Context, slog.Record) error) error {
	return next(ctx, r)
}

const callerSkip = 3

func (l *slogLogger) log(level slog.Level, msg string, args ...any) {
	if !l.h.Enabled(context.Background(), level) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(callerSkip, pcs[:])
	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.Add(args...)
	_ = l.h.Handle(context.Background(), r)
}

func (l *slogLogger) Debug(msg string, args ...any) { l.log(slog.LevelDebug, msg, args...) }
func (l *slogLogger) Info(msg string, args ...any) { l.log(slog.LevelInfo, msg, args...) }
func (l *slogLogger) Warn(msg string, args ...any) { l.log(slog.LevelWarn, msg, args...) }
func (l *slogLogger) Error(msg string, args ...any) { l.log(slog.LevelError, msg, args...) }

func (l *slogLogger) Debugf(format string, args ...any) { l.log(slog.LevelDebug, fmt.Sprintf(format, args...)) }
func (l *slogLogger) Infof(format string, args ...any) { l.log(slog.LevelInfo, fmt.Sprintf(format, args...)) }
func (l *slogLogger) Warnf(format string, args ...any) { l.log(slog.LevelWarn, fmt.Sprintf(format, args...)) }
func (l *slogLogger) Errorf(format string, args ...any) { l.log(slog.LevelError, fmt.Sprintf(format, args...)) }

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{h: l.h.WithAttrs(argsToAttrs(args)), debug: l.debug, color: l.color, writer: l.writer}
}

func (l *slogLogger) WithGroup(name string) Logger {
	return &slogLogger{h: l.h.WithGroup(name), debug: l.debug, color: l.color, writer: l.writer}
}

func argsToAttrs(args []any) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		key, _ := args[i].(string)
		attrs = append(attrs, slog.Any(key, args[i+1]))
	}
	return attrs
}

// LevelLabel renders a colorized short label for level, used by the CLI's
// event stream renderer.
func LevelLabel(level string) string {
	switch level {
	case "error":
		return color.New(color.FgRed, color.Bold).Sprint("ERROR")
	case "warn":
		return color.New(color.FgYellow).Sprint("WARN")
	case "debug":
		return color.New(color.FgCyan).Sprint("DEBUG")
	default:
		return color.New(color.FgGreen).Sprint("INFO")
	}
}
