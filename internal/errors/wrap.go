package errors

import (
	"fmt"
)

// WrappedError contains both internal error details and a user-facing message.
// The router shows UserMessage to the chat and logs the full error.
type WrappedError struct {
	Operation   string // Operation being performed (e.g., "list_bookings", "create_bot")
	Module      string // Module name (e.g., "dialog", "booker")
	Cause       error  // Underlying error
	UserMessage string // User-friendly message
}

func (e *WrappedError) Error() string {
	return fmt.Sprintf("[%s:%s] %s: %v", e.Module, e.Operation, e.UserMessage, e.Cause)
}

func (e *WrappedError) Unwrap() error {
	return e.Cause
}

// Wrap wraps an error with module/operation context and a user-facing message.
// Returns nil if err is nil.
func Wrap(module, operation string, err error, userMessage string) error {
	if err == nil {
		return nil
	}
	return &WrappedError{
		Operation:   operation,
		Module:      module,
		Cause:       err,
		UserMessage: userMessage,
	}
}

// Wrapf wraps an error with a formatted user-facing message.
func Wrapf(module, operation string, err error, format string, args ...any) error {
	return Wrap(module, operation, err, fmt.Sprintf(format, args...))
}

// GetUserMessage returns the user-friendly message from a WrappedError.
// Returns the error string if not a WrappedError.
func GetUserMessage(err error) string {
	if err == nil {
		return ""
	}
	if wrapped, ok := err.(*WrappedError); ok {
		return wrapped.UserMessage
	}
	return err.Error()
}
