// Package otel records CSP resolution results on OpenTelemetry request
// spans.
package otel

import (
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Observer implements the middleware Observer by annotating the span
// already carried on the request context.
type Observer struct{}

// NewObserver creates an Observer.
func NewObserver() *Observer {
	return &Observer{}
}

// Observe records whether a policy matched and, if so, which policy was
// applied.
func (o *Observer) Observe(r *http.Request, matched bool, policy string) {
	if o == nil || r == nil {
		return
	}
	span := trace.SpanFromContext(r.Context())
	if !span.IsRecording() {
		return
	}
	attrs := []attribute.KeyValue{attribute.Bool("csp.matched", matched)}
	if matched {
		attrs = append(attrs, attribute.String("csp.policy", policy))
	}
	span.SetAttributes(attrs...)
}
