package server

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError indicates the request payload failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// EngineError indicates the optimization engine failed to produce a rewrite.
type EngineError struct {
	Message string
	Cause   error
}

func (e *EngineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("engine error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("engine error: %s", e.Message)
}

func (e *EngineError) Unwrap() error {
	return e.Cause
}

// HTTPStatus maps an error to the HTTP status code it should be reported as.
func HTTPStatus(err error) int {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest
	}

	var engineErr *EngineError
	if errors.As(err, &engineErr) {
		return http.StatusInternalServerError
	}

	return http.StatusInternalServerError
}
