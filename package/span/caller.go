package span

import (
	"fmt"
	"runtime"
	"strings"
)

type Caller struct {
	Name *string `json:"name,omitempty"`
	Line *int    `json:"line,omitempty"`
}

func (r *Caller) String() string {
	return fmt.Sprintf("%s:%d", *r.Name, *r.Line)
}

// Function returns the caller name without its package qualifier.
func (r *Caller) Function() string {
	name := *r.Name
	if index := strings.LastIndex(name, "."); index >= 0 {
		return name[index+1:]
	}
	return name
}

func NewCaller(skip int) *Caller {
	pc, _, line, ok := runtime.Caller(skip + 1)
	if !ok {
		name := "unknown"
		return &Caller{
			Name: &name,
			Line: &line,
		}
	}
	name := runtime.FuncForPC(pc).Name()
	name = name[strings.LastIndex(name, "/")+1:]

	return &Caller{
		Name: &name,
		Line: &line,
	}
}
