package runlog

import (
	"context"
	"encoding/json"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// TraceInfo holds the OTel identifiers extracted from a context.
type TraceInfo struct {
	// TraceID is the W3C trace ID (32 lowercase hex chars).
	TraceID string

	// SpanID is the W3C span ID (16 lowercase hex chars).
	SpanID string
}

// ExtractTraceInfo reads the active OpenTelemetry span from ctx and returns
// its trace_id and span_id as hex strings.
//
// How it works:
//  1. The gRPC servers register otelgrpc.NewServerHandler, which reads the
//     W3C traceparent header from incoming metadata and stores a server
//     span in the request context. Orchestrator.Start then opens its own
//     orchestrator.run span as a child of it.
//  2. trace.SpanFromContext(ctx) retrieves the innermost span.
//  3. SpanContext().IsValid() rejects the no-op span returned when ctx has
//     none, e.g. in unit tests or when tracing is disabled.
//
// Both fields are empty strings when no valid span is found. The run log
// stores them as-is, so an entry without a trace is still saved.
func ExtractTraceInfo(ctx context.Context) TraceInfo {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return TraceInfo{}
	}
	return TraceInfo{
		TraceID: sc.TraceID().String(),
		SpanID:  sc.SpanID().String(),
	}
}

// NewEntry builds an Entry stamped with the trace info found in ctx.
//
// errs is stored as a JSON array; nil or empty becomes "[]" so the column
// is never NULL. At is taken from the wall clock in UTC.
func NewEntry(ctx context.Context, runID string, status Status, step string, errs []string) *Entry {
	ti := ExtractTraceInfo(ctx)

	errJSON := "[]"
	if len(errs) > 0 {
		if b, err := json.Marshal(errs); err == nil {
			errJSON = string(b)
		}
	}

	return &Entry{
		RunID:   runID,
		Step:    step,
		Status:  status,
		Errors:  errJSON,
		TraceID: ti.TraceID,
		SpanID:  ti.SpanID,
		At:      time.Now().UTC(),
	}
}
