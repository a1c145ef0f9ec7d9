package logging

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

// WithTrace returns a logrus entry enriched with trace_id/span_id from ctx's
// otel span, when one is present — the same fields an operator would grep
// for to correlate one chat turn's agent/LLM-adapter log lines with the span
// internal/agent opens around it (spec.md §4.5, SPEC_FULL.md §12).
func WithTrace(ctx context.Context) *logrus.Entry {
	entry := logrus.NewEntry(Log)
	if ctx == nil {
		return entry
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return entry
	}
	fields := logrus.Fields{"trace_id": sc.TraceID().String()}
	if sc.HasSpanID() {
		fields["span_id"] = sc.SpanID().String()
	}
	if sc.IsSampled() {
		fields["trace_sampled"] = true
	}
	return entry.WithFields(fields)
}
