package span

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type Layer struct {
	Name   string       `json:"name,omitempty"`
	Tracer trace.Tracer `json:"-"`
}

func NewLayer(name string) *Layer {
	return &Layer{
		Name:   name,
		Tracer: nil,
	}
}

// With opens a span named after the calling function, nested under the span already in ctx.
func (r *Layer) With(ctx context.Context) (*Span, context.Context) {
	caller := NewCaller(1)
	name := caller.String()
	now := time.Now()

	// * resolve tracer from the global provider unless one is pinned
	tracer := r.Tracer
	if tracer == nil {
		tracer = otel.Tracer(r.Name)
	}

	ctx, tracingSpan := tracer.Start(ctx, r.Name+"/"+caller.Function())
	tracingSpan.SetAttributes(
		attribute.String("span.layer", r.Name),
		attribute.String("span.caller", name),
	)

	s := &Span{
		Name:      &name,
		Path:      []*string{},
		Layer:     r,
		Caller:    caller,
		Variables: make(map[string]any),
		Started:   &now,
		Ended:     nil,
		Trace:     tracingSpan,
	}

	if parent := FromContext(ctx); parent != nil {
		s.Path = append(append(s.Path, parent.Path...), parent.Name)
	}

	return s, context.WithValue(ctx, ContextKeySpan, s)
}
