// Package otel exports Synthesia client requests as OpenTelemetry spans.
//
//	hook := otel.NewHook()
//	client := synthesia.New(apiKey, synthesia.WithTelemetry(hook))
//
// One client span is recorded per API call, named after the operation
// ("synthesia videos.create"). The span covers the whole call, transport
// retries included.
package otel

import (
	"context"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/petal-labs/reel/core"
)

// ScopeName is the instrumentation scope of the spans.
const ScopeName = "github.com/petal-labs/reel/contrib/otel"

// Attribute keys set on every span.
const (
	AttrOperation  = attribute.Key("synthesia.operation")
	AttrRequestID  = attribute.Key("synthesia.request_id")
	AttrErrorCode  = attribute.Key("synthesia.error_code")
	AttrMethod     = attribute.Key("http.request.method")
	AttrPath       = attribute.Key("url.path")
	AttrStatusCode = attribute.Key("http.response.status_code")
)

// Option configures a Hook.
type Option func(*Hook)

// WithTracerProvider sets the provider spans are created from.
// Defaults to the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(h *Hook) {
		if tp != nil {
			h.tracer = tp.Tracer(ScopeName)
		}
	}
}

// WithContext sets the context spans are started from, which supplies
// their parent. Defaults to context.Background.
func WithContext(ctx context.Context) Option {
	return func(h *Hook) {
		if ctx != nil {
			h.parent = ctx
		}
	}
}

// Hook implements core.TelemetryHook.
type Hook struct {
	tracer trace.Tracer
	parent context.Context
}

// NewHook creates a tracing hook.
func NewHook(opts ...Option) *Hook {
	h := &Hook{
		tracer: otel.GetTracerProvider().Tracer(ScopeName),
		parent: context.Background(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// OnRequestStart does nothing; the span is recorded with its real start
// time once the request ends.
func (h *Hook) OnRequestStart(core.RequestStartEvent) {}

// OnRequestEnd records the span of a finished request.
func (h *Hook) OnRequestEnd(e core.RequestEndEvent) {
	attrs := []attribute.KeyValue{
		AttrOperation.String(e.Operation),
		AttrMethod.String(e.Method),
		AttrPath.String(e.Path),
		AttrStatusCode.Int(e.StatusCode),
	}
	if e.RequestID != "" {
		attrs = append(attrs, AttrRequestID.String(e.RequestID))
	}

	_, span := h.tracer.Start(h.parent, "synthesia "+e.Operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithTimestamp(e.Start),
		trace.WithAttributes(attrs...),
	)

	if e.Err != nil {
		code := e.Err.Code
		if code == "" {
			code = strconv.Itoa(e.StatusCode)
		}
		span.SetAttributes(AttrErrorCode.String(code))
		// Messages may echo request content; only the code is exported.
		span.SetStatus(codes.Error, code)
	} else {
		span.SetStatus(codes.Ok, "")
	}

	span.End(trace.WithTimestamp(e.End))
}

var _ core.TelemetryHook = (*Hook)(nil)
