package sink

import "fmt"

// WriteError represents a failure to persist the output collection.
type WriteError struct {
	Path    string
	Message string
	Cause   error
}

func (e *WriteError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("sink write error for %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("sink write error for %s: %s", e.Path, e.Message)
}

func (e *WriteError) Unwrap() error {
	return e.Cause
}
