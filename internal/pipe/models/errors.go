package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for tool-execution failures. Both are fatal to the
// current batch; the remediation is disabling automatic tool execution.
var (
	ErrToolNotFound           = errors.New("tool not found")
	ErrMalformedToolArguments = errors.New("malformed tool arguments")
)

// ToolError wraps a tool-execution failure with the tool's name.
type ToolError struct {
	Name       string
	Underlying error
}

// Error implements the error interface.
func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %q: %v", e.Name, e.Underlying)
}

// Unwrap returns the underlying error.
func (e *ToolError) Unwrap() error {
	return e.Underlying
}
