package span

import (
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type Span struct {
	Name      *string        `json:"name,omitempty"`
	Path      []*string      `json:"path,omitempty"`
	Layer     *Layer         `json:"layer,omitempty"`
	Caller    *Caller        `json:"caller,omitempty"`
	Variables map[string]any `json:"variables,omitempty"`
	Started   *time.Time     `json:"started,omitempty"`
	Ended     *time.Time     `json:"ended,omitempty"`
	Trace     trace.Span     `json:"-"`
}

func (r *Span) Variable(key string, value any) {
	r.Variables[key] = value
	r.Trace.SetAttributes(Attribute(key, value))
}

func (r *Span) Error(message string, err error) error {
	e := NewError(r, message, err)
	r.Trace.RecordError(e)
	r.Trace.SetStatus(codes.Error, message)
	return e
}

func (r *Span) End() {
	end := time.Now()
	r.Ended = &end
	r.Trace.End()
}

func (r *Span) Duration() time.Duration {
	if r.Ended == nil {
		return time.Since(*r.Started)
	}
	return r.Ended.Sub(*r.Started)
}

func Attribute(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case bool:
		return attribute.Bool(key, v)
	case fmt.Stringer:
		return attribute.String(key, v.String())
	default:
		return attribute.String(key, fmt.Sprint(v))
	}
}
