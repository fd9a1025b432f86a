package core

// Logger receives render progress and diagnostics.
// Implementations must be safe to call from the goroutine driving a render.
type Logger interface {
	Printf(format string, args ...interface{})
}

// LoggerFunc adapts a plain printf-style function to Logger
type LoggerFunc func(format string, args ...interface{})

// Printf calls f
func (f LoggerFunc) Printf(format string, args ...interface{}) {
	f(format, args...)
}

// NopLogger discards everything
type NopLogger struct{}

// Printf implements Logger
func (NopLogger) Printf(string, ...interface{}) {}
