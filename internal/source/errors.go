package source

import "fmt"

// ReadError represents a failure to read the target list. It aborts the run
// before any page is fetched.
type ReadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *ReadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("source read error for %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("source read error for %s: %s", e.Path, e.Message)
}

func (e *ReadError) Unwrap() error {
	return e.Cause
}
