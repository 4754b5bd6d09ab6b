package dto

import "net/http"

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation and input error codes
const (
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeInvalidJSON  = "INVALID_JSON"
	ErrCodeInvalidInput = "INVALID_INPUT"
)

// Authentication error codes
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeTokenExpired       = "TOKEN_EXPIRED"
)

// Resource and conflict error codes
const (
	ErrCodeNotFound              = "NOT_FOUND"
	ErrCodeAlreadyExists         = "ALREADY_EXISTS"
	ErrCodeDuplicateEmail        = "DUPLICATE_EMAIL"
	ErrCodeConcurrentModify      = "CONCURRENT_MODIFICATION"
	ErrCodeConcurrencyConflict   = "CONCURRENCY_CONFLICT"
	ErrCodeIntegrityViolation    = "INTEGRITY_VIOLATION"
	ErrCodeInvalidState          = "INVALID_STATE"
	ErrCodeInvalidTransition     = "INVALID_STATUS_TRANSITION"
	ErrCodeRateLimited           = "RATE_LIMITED"
	ErrCodeRequestEntityTooLarge = "REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,

	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,

	ErrCodeNotFound: http.StatusNotFound,

	// Conflict family
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeDuplicateEmail:      http.StatusConflict,
	ErrCodeConcurrentModify:    http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeIntegrityViolation:  http.StatusConflict,
	ErrCodeInvalidState:        http.StatusConflict,
	ErrCodeInvalidTransition:   http.StatusConflict,

	ErrCodeRateLimited:           http.StatusTooManyRequests,
	ErrCodeRequestEntityTooLarge: http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500 Internal Server Error.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainErrorCodeMapping normalizes domain error codes that differ from
// the wire-level code they are reported under
var domainErrorCodeMapping = map[string]string{
	ErrCodeConcurrencyConflict: ErrCodeConcurrentModify,
	ErrCodeInvalidInput:        ErrCodeValidation,
	"INVALID_PRODUCT":          ErrCodeValidation,
	"INVALID_PRODUCT_NAME":     ErrCodeValidation,
	"INVALID_QUANTITY":         ErrCodeValidation,
	"INVALID_PRICE":            ErrCodeValidation,
	"INVALID_CLIENT":           ErrCodeValidation,
	"INVALID_STATUS":           ErrCodeValidation,
	"INVALID_ROLE":             ErrCodeValidation,
}

// NormalizeErrorCode converts a domain error code to its wire-level form.
// Codes without a mapping are returned as-is.
func NormalizeErrorCode(code string) string {
	if mapped, ok := domainErrorCodeMapping[code]; ok {
		return mapped
	}
	return code
}
