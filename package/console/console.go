package console

import (
	"fmt"
	"io"
	"log"
	"os"
)

const Prefix = "(treewatch) "

type Console struct {
	logger  *log.Logger
	verbose bool
}

func New(w io.Writer, verbose bool) *Console {
	if w == nil {
		w = os.Stdout
	}
	return &Console{
		logger:  log.New(w, Prefix, 0),
		verbose: verbose,
	}
}

// Discard returns a console that drops every line.
func Discard() *Console {
	return New(io.Discard, false)
}

func (r *Console) Verbose() bool {
	return r != nil && r.verbose
}

func (r *Console) Info(format string, args ...any) {
	r.write("", format, args...)
}

func (r *Console) Warn(format string, args ...any) {
	r.write("warning: ", format, args...)
}

func (r *Console) Error(format string, args ...any) {
	r.write("error: ", format, args...)
}

func (r *Console) Debug(format string, args ...any) {
	if r == nil || !r.verbose {
		return
	}
	r.write("debug: ", format, args...)
}

func (r *Console) write(level string, format string, args ...any) {
	if r == nil {
		return
	}
	r.logger.Print(level + fmt.Sprintf(format, args...))
}
