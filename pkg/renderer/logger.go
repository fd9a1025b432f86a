package renderer

import (
	"fmt"
	"io"
	"sync"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// DefaultLogger writes messages to an io.Writer, one per line
type DefaultLogger struct {
	mu sync.Mutex
	w  io.Writer
}

// NewDefaultLogger creates a logger writing to w
func NewDefaultLogger(w io.Writer) *DefaultLogger {
	return &DefaultLogger{w: w}
}

// Printf implements core.Logger
func (l *DefaultLogger) Printf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if len(msg) == 0 || msg[len(msg)-1] != '\n' {
		msg += "\n"
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.w, msg)
}

// NewNopLogger returns a logger that discards everything
func NewNopLogger() core.Logger {
	return core.NopLogger{}
}
