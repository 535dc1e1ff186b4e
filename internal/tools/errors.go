// ABOUTME: Tool-level error type for failures reported inside a successful result.
// ABOUTME: Distinguishes caller-visible tool failures from internal faults.

package tools

import "fmt"

// CallError is a tool-level failure whose message is surfaced verbatim to the
// caller as an isError tool result. Anything else a handler returns is
// treated as an internal fault and reported through the generic
// "Internal tool error" path.
type CallError struct {
	Message string
}

func (e *CallError) Error() string {
	return e.Message
}

// Failf builds a CallError with a formatted message.
func Failf(format string, args ...any) error {
	return &CallError{Message: fmt.Sprintf(format, args...)}
}
