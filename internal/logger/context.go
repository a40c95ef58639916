package logger

import "context"

type ctxKey struct{}

// WithLogger attaches l to ctx, retrievable with FromContext.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the Logger attached to ctx, or Default if none was
// attached.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(ctxKey{}).(Logger); ok {
		return l
	}
	return Default
}

// The package-level helpers below let call sites that only have a
// context.Context (rather than a threaded-through Logger value) log without
// an extra FromContext(ctx) indirection at each call site.

func Debug(ctx context.Context, msg string, args ...any) { logFromCtx(ctx).Debug(msg, args...) }
func Info(ctx context.Context, msg string, args ...any)  { logFromCtx(ctx).Info(msg, args...) }
func Warn(ctx context.Context, msg string, args ...any)  { logFromCtx(ctx).Warn(msg, args...) }
func Error(ctx context.Context, msg string, args ...any) { logFromCtx(ctx).Error(msg, args...) }

func Debugf(ctx context.Context, format string, args ...any) { logFromCtx(ctx).Debugf(format, args...) }
func Infof(ctx context.Context, format string, args ...any)  { logFromCtx(ctx).Infof(format, args...) }
func Warnf(ctx context.Context, format string, args ...any)  { logFromCtx(ctx).Warnf(format, args...) }
func Errorf(ctx context.Context, format string, args ...any) { logFromCtx(ctx).Errorf(format, args...) }

// logFromCtx only looks up the Logger. callerSkip is tuned for direct
// Logger method calls, so a record logged through one of the package-level
// helpers above reports that helper in this file as its source, not the
// helper's caller.
func logFromCtx(ctx context.Context) Logger {
	return FromContext(ctx)
}
