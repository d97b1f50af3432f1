package shared

import "errors"

// Error codes shared by every bounded context.
const (
	CodeUnauthenticated   = "UNAUTHENTICATED"
	CodeForbidden         = "FORBIDDEN"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeAggregationFailed = "AGGREGATION_FAILED"
	CodePersistenceFailed = "PERSISTENCE_FAILED"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any.
// The cause is kept for server-side logs only and never serialized.
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is matches on Code so that errors.Is(err, ErrNotFound) works for any not-found error.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapDomainError creates a domain error that carries cause.
func WrapDomainError(code, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Common domain errors
var (
	ErrUnauthenticated   = NewDomainError(CodeUnauthenticated, "Authentication required")
	ErrForbidden         = NewDomainError(CodeForbidden, "Forbidden")
	ErrNotFound          = NewDomainError(CodeNotFound, "Resource not found")
	ErrConflict          = NewDomainError(CodeConflict, "Resource already exists")
	ErrInvalidInput      = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrAggregationFailed = NewDomainError(CodeAggregationFailed, "Failed to aggregate records")
	ErrPersistenceFailed = NewDomainError(CodePersistenceFailed, "Failed to persist records")
)

// NewForbidden returns a FORBIDDEN error. The message always starts with "Forbidden".
func NewForbidden(reason string) *DomainError {
	if reason == "" {
		return NewDomainError(CodeForbidden, "Forbidden")
	}
	return NewDomainError(CodeForbidden, "Forbidden: "+reason)
}

// NewNotFound returns a NOT_FOUND error for the named resource.
func NewNotFound(resource string) *DomainError {
	return NewDomainError(CodeNotFound, resource+" not found")
}

// NewConflict returns a CONFLICT error.
func NewConflict(message string) *DomainError {
	return NewDomainError(CodeConflict, message)
}

// NewInvalidInput returns an INVALID_INPUT error.
func NewInvalidInput(message string) *DomainError {
	return NewDomainError(CodeInvalidInput, message)
}

// NewAggregationFailed wraps a read failure that prevented an aggregate from being built.
func NewAggregationFailed(message string, cause error) *DomainError {
	return WrapDomainError(CodeAggregationFailed, message, cause)
}

// NewPersistenceFailed wraps a write failure.
func NewPersistenceFailed(message string, cause error) *DomainError {
	return WrapDomainError(CodePersistenceFailed, message, cause)
}

// CodeOf returns the domain error code of err, or "" when err is not a DomainError.
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
