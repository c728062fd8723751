package telemetry

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

// ContextHandler is a slog.Handler that extracts TraceID and SpanID from the
// context and adds them as attributes to every log record.
//
// The ids are only visible to the *Context logging calls (InfoContext,
// ErrorContext, ...); a plain Info has a background context and is logged
// without them. The wrapped handler does the actual formatting.
type ContextHandler struct {
	slog.Handler
}

// NewContextHandler returns a handler that decorates records with tracing ids.
func NewContextHandler(h slog.Handler) *ContextHandler {
	return &ContextHandler{Handler: h}
}

// Handle adds tracing context attributes before calling the wrapped handler.
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	spanContext := trace.SpanContextFromContext(ctx)
	if spanContext.HasTraceID() {
		r.AddAttrs(slog.String("trace_id", spanContext.TraceID().String()))
	}
	if spanContext.HasSpanID() {
		r.AddAttrs(slog.String("span_id", spanContext.SpanID().String()))
	}
	return h.Handler.Handle(ctx, r)
}

// WithAttrs keeps the tracing decoration on derived loggers. Returning the
// wrapped handler's result directly would drop it, since logger.With calls
// WithAttrs and uses whatever handler comes back.
func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

// WithGroup re-wraps for the same reason as WithAttrs. Note that trace_id and
// span_id land inside the group.
func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithGroup(name)}
}

// NewLogger returns a JSON logger writing to w at the given level
// ("debug", "info", "warn", "error"; unknown values mean info).
func NewLogger(w io.Writer, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	return slog.New(NewContextHandler(handler))
}

// InitLogger installs a JSON logger on stderr as the slog default and
// returns it.
func InitLogger(level string) *slog.Logger {
	logger := NewLogger(os.Stderr, level)
	slog.SetDefault(logger)
	return logger
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
