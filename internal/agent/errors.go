package agent

import "fmt"

// ValidationError reports a missing or empty required input field. It is
// surfaced immediately; the run never starts.
type ValidationError struct {
	Field string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}
