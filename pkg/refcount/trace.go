package refcount

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
)

var tracer atomic.Pointer[slog.Logger]

// SetLogger routes debug traces of destructions and failed casts to l.
// A nil l turns tracing off, which is the default.
func SetLogger(l *slog.Logger) {
	tracer.Store(l)
}

func traceDestroy(c Counted) {
	l := tracer.Load()
	if l == nil || !l.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	l.LogAttrs(context.Background(), slog.LevelDebug, "object destroyed",
		slog.String("type", fmt.Sprintf("%T", c)),
	)
}

func traceCastFailed(c Counted, target string) {
	l := tracer.Load()
	if l == nil || !l.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	l.LogAttrs(context.Background(), slog.LevelDebug, "dynamic cast failed",
		slog.String("type", fmt.Sprintf("%T", c)),
		slog.String("target", target),
		slog.Int64("use_count", UseCount(c)),
	)
}
