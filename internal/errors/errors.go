package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Common error types that can be used across the application
var (
	ErrNotFound   = new(ErrCodeNotFound, "resource not found")
	ErrValidation = new(ErrCodeValidation, "validation error")
	ErrInvariant  = new(ErrCodeInvariant, "invariant violation")
	ErrDatabase   = new(ErrCodeDatabase, "database error")
	ErrHTTPClient = new(ErrCodeHTTPClient, "http client error")
	ErrSystem     = new(ErrCodeSystemError, "system error")

	// maps errors to process exit codes
	exitCodeMap = map[error]int{
		ErrValidation: 2,
		ErrNotFound:   2,
		ErrInvariant:  3,
		ErrDatabase:   4,
		ErrHTTPClient: 4,
		ErrSystem:     1,
	}
)

const (
	ErrCodeHTTPClient  = "http_client_error"
	ErrCodeSystemError = "system_error"
	ErrCodeNotFound    = "not_found"
	ErrCodeValidation  = "validation_error"
	ErrCodeInvariant   = "invariant_violation"
	ErrCodeDatabase    = "database_error"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Op      string // Logical operation name
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

func new(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func Is(err, reference error) bool {
	return errors.Is(err, reference)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsInvariant checks if an error is a post-generation invariant violation
func IsInvariant(err error) bool {
	return errors.Is(err, ErrInvariant)
}

// ExitCodeFromErr maps an error to the exit code a command should terminate with.
func ExitCodeFromErr(err error) int {
	if err == nil {
		return 0
	}
	for e, code := range exitCodeMap {
		if errors.Is(err, e) {
			return code
		}
	}
	return 1
}

// GetHints returns the user facing hints attached to err.
func GetHints(err error) []string {
	return errors.GetAllHints(err)
}
