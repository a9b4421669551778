package optimize

import "fmt"

// CallError represents a failed collaborator call: transport failure,
// non-2xx status, or a malformed response body.
type CallError struct {
	Message    string
	StatusCode int
	Cause      error
}

func (e *CallError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("optimize call failed (status %d): %s", e.StatusCode, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("optimize call failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("optimize call failed: %s", e.Message)
}

func (e *CallError) Unwrap() error {
	return e.Cause
}
