package petalskill

import "fmt"

// Result is the uniform outcome envelope returned by every tool invocation.
// Success and ErrorMessage are mutually constrained: a successful result
// carries no error message, and a failed result always carries one. Build
// results through Ok, Error, or Errorf rather than assembling fields by hand
// so that constraint holds everywhere.
type Result struct {
	// Success reports whether the invocation completed without a tool-level
	// failure.
	Success bool `json:"success"`

	// Message is the human-readable headline for successful results.
	Message string `json:"message"`

	// Data carries optional structured output.
	Data map[string]any `json:"data,omitempty"`

	// ErrorMessage is the human-readable headline for failed results.
	ErrorMessage string `json:"error_message,omitempty"`

	// InvocationID identifies one invocation for audit and tracing.
	// Assigned by the invocation layer; empty on results built by handlers.
	InvocationID string `json:"invocation_id,omitempty"`
}

// Ok builds a successful result. Data may be nil.
func Ok(message string, data map[string]any) Result {
	return Result{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// Error builds a failed result with the given error message.
func Error(errorMessage string) Result {
	return Result{
		Success:      false,
		ErrorMessage: errorMessage,
	}
}

// Errorf builds a failed result with a formatted error message.
func Errorf(format string, args ...any) Result {
	return Error(fmt.Sprintf(format, args...))
}

// Headline returns the message a host should display: Message when the
// invocation succeeded, ErrorMessage otherwise.
func (r Result) Headline() string {
	if r.Success {
		return r.Message
	}
	return r.ErrorMessage
}
