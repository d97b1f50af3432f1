package dto

import (
	"net/http"

	"github.com/edusuite/backend/internal/domain/shared"
)

// Transport-level error codes. Domain errors keep their shared.Code* value on the wire.
const (
	// ErrCodeInternal is used for unclassified server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeBadRequest is used when the request cannot be decoded
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeRequestTooLarge is used when the body exceeds the configured limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
	// ErrCodeTimeout is used when the request deadline passes
	ErrCodeTimeout = "ERR_TIMEOUT"
)

// InternalErrorMessage is the only message a client sees for unclassified failures
const InternalErrorMessage = "An unexpected error occurred"

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	shared.CodeUnauthenticated:   http.StatusUnauthorized,
	shared.CodeForbidden:         http.StatusForbidden,
	shared.CodeNotFound:          http.StatusNotFound,
	shared.CodeConflict:          http.StatusConflict,
	shared.CodeInvalidInput:      http.StatusBadRequest,
	shared.CodeAggregationFailed: http.StatusInternalServerError,
	shared.CodePersistenceFailed: http.StatusInternalServerError,

	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeTimeout:         http.StatusGatewayTimeout,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
