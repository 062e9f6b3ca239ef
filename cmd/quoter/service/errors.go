package service

import (
	"errors"
	"fmt"

	"github.com/flowshift/quoter/cmd/quoter/repository"
	"github.com/flowshift/quoter/common/aggregation"
	"github.com/flowshift/quoter/common/session"
)

// Validation errors (400 Bad Request)
var (
	ErrNoFiles         = errors.New("no files uploaded")
	ErrTooManyFiles    = errors.New("too many files in one upload")
	ErrInvalidPlatform = errors.New("invalid platform")
	ErrInvalidUsage    = errors.New("invalid usage figures")
	ErrEmptyQuote      = errors.New("no workflows selected")
)

// ServiceError wraps service-level errors with additional context
type ServiceError struct {
	Op      string // Operation name
	Code    string // Error code for API responses
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a validation error with context
func NewValidationError(op, code, message string, err error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ErrorCode returns the API code carried by err, or fallback
func ErrorCode(err error, fallback string) string {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) && svcErr.Code != "" {
		return svcErr.Code
	}
	return fallback
}

// IsValidationError checks if an error should return HTTP 400
func IsValidationError(err error) bool {
	return errors.Is(err, ErrNoFiles) ||
		errors.Is(err, ErrTooManyFiles) ||
		errors.Is(err, ErrInvalidPlatform) ||
		errors.Is(err, ErrInvalidUsage) ||
		errors.Is(err, ErrEmptyQuote) ||
		errors.Is(err, aggregation.ErrUnknownZap)
}

// IsNotFoundError checks if an error should return HTTP 404
func IsNotFoundError(err error) bool {
	return errors.Is(err, session.ErrNotFound) ||
		errors.Is(err, repository.ErrQuoteNotFound)
}
