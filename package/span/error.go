package span

import (
	"strings"
)

type Error struct {
	Items []*ErrorItem `json:"items,omitempty"`
}

// Error joins the messages from the outermost layer inwards, ending with the cause.
func (r *Error) Error() string {
	parts := make([]string, 0, len(r.Items)+1)
	for i := len(r.Items) - 1; i >= 0; i-- {
		if r.Items[i].Message != nil && *r.Items[i].Message != "" {
			parts = append(parts, *r.Items[i].Message)
		}
	}
	if cause := r.Unwrap(); cause != nil {
		parts = append(parts, cause.Error())
	}
	return strings.Join(parts, ": ")
}

func (r *Error) Unwrap() error {
	for _, item := range r.Items {
		if item.Error != nil {
			return item.Error
		}
	}
	return nil
}

// Message returns the innermost message of the chain.
func (r *Error) Message() string {
	if len(r.Items) == 0 || r.Items[0].Message == nil {
		return ""
	}
	return *r.Items[0].Message
}

type ErrorItem struct {
	Span    *Span   `json:"span,omitempty"`
	Trace   *Caller `json:"trace,omitempty"`
	Message *string `json:"message,omitempty"`
	Error   error   `json:"error,omitempty"`
}

func NewError(span *Span, message string, err error) error {
	trace := NewCaller(2)
	if err == nil {
		return &Error{
			Items: []*ErrorItem{
				{
					Span:    span,
					Trace:   trace,
					Message: &message,
					Error:   nil,
				},
			},
		}
	}

	if e, ok := err.(*Error); ok {
		e.Items = append(e.Items, &ErrorItem{
			Span:    span,
			Trace:   trace,
			Message: &message,
			Error:   nil,
		})
		return e
	}

	return &Error{
		Items: []*ErrorItem{
			{
				Span:    span,
				Trace:   trace,
				Message: &message,
				Error:   err,
			},
		},
	}
}
