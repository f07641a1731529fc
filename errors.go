package petalskill

import (
	"fmt"
	"strings"
)

// Diagnostic codes produced at declaration and construction time.
const (
	CodeDuplicateTool      = "DUPLICATE_TOOL"
	CodeDuplicateParameter = "DUPLICATE_PARAMETER"
	CodeDuplicateConfig    = "DUPLICATE_CONFIG"
	CodeInvalidName        = "INVALID_NAME"
	CodeInvalidType        = "INVALID_TYPE"
	CodeMissingHandler     = "MISSING_HANDLER"
	CodeMissingConfig      = "MISSING_CONFIG"
	CodeConfigType         = "CONFIG_TYPE"

	// DefinitionInvalidCode identifies aggregated definition failures.
	DefinitionInvalidCode = "DEFINITION_INVALID"
)

// Severity defines diagnostic severity produced by validators.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic is a structured validation finding tied to a declaration field.
type Diagnostic struct {
	Field    string   `json:"field,omitempty"`
	Code     string   `json:"code,omitempty"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// DefinitionError is a framework-level error: the skill declaration itself
// is defective. It fails fast at Build or New time, before any invocation,
// and is never converted into a tool-level Result.
type DefinitionError struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []Diagnostic `json:"details,omitempty"`
}

func (e *DefinitionError) Error() string {
	if e == nil {
		return ""
	}
	if len(e.Details) == 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	builder := strings.Builder{}
	builder.WriteString(e.Code)
	builder.WriteString(": ")
	builder.WriteString(e.Message)
	for _, detail := range e.Details {
		builder.WriteString("\n - ")
		builder.WriteString(detail.Field)
		builder.WriteString(" [")
		builder.WriteString(detail.Code)
		builder.WriteString("] ")
		builder.WriteString(detail.Message)
	}
	return builder.String()
}

func newDefinitionError(diags []Diagnostic) *DefinitionError {
	return &DefinitionError{
		Code:    DefinitionInvalidCode,
		Message: "Skill definition failed validation",
		Details: diags,
	}
}

func hasErrorDiagnostics(diags []Diagnostic) bool {
	for _, diag := range diags {
		if diag.Severity == SeverityError {
			return true
		}
	}
	return false
}
