package dto

import (
	"errors"
	"net/http"
	"strings"

	"github.com/erp/cashledger/internal/domain/shared"
)

// Codes produced by the HTTP layer itself. Domain failures carry the code of
// their shared.DomainError.
const (
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeTokenExpired    = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid    = "TOKEN_INVALID"
	ErrCodeTokenRevoked    = "TOKEN_REVOKED"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeRateLimited     = "RATE_LIMITED"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeUnauthorized:    http.StatusUnauthorized,
	ErrCodeTokenExpired:    http.StatusUnauthorized,
	ErrCodeTokenInvalid:    http.StatusUnauthorized,
	ErrCodeTokenRevoked:    http.StatusUnauthorized,
	ErrCodeForbidden:       http.StatusForbidden,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	// Validation
	"INVALID_INPUT":          http.StatusBadRequest,
	"INVALID_PIN":            http.StatusBadRequest,
	"INVALID_AMOUNT":         http.StatusBadRequest,
	"INVALID_MOVEMENT_TYPE":  http.StatusBadRequest,
	"INVALID_CATEGORY":       http.StatusBadRequest,
	"INVALID_PAYMENT_METHOD": http.StatusBadRequest,
	"INVALID_RECONCILIATION": http.StatusUnprocessableEntity,

	// Wrong PIN, missing operator, foreign records
	"NOT_FOUND":          http.StatusNotFound,
	"OPERATOR_NOT_FOUND": http.StatusNotFound,
	"REGISTER_NOT_FOUND": http.StatusNotFound,
	"SHIFT_NOT_FOUND":    http.StatusNotFound,
	"ADVANCE_NOT_FOUND":  http.StatusNotFound,

	"OUTBOX_ENTRY_NOT_FOUND": http.StatusNotFound,

	// Conflicts
	"ALREADY_EXISTS":          http.StatusConflict,
	"CONFLICT":                http.StatusConflict,
	"CONCURRENCY_CONFLICT":    http.StatusConflict,
	"PIN_ALREADY_IN_USE":      http.StatusConflict,
	"REGISTER_ALREADY_OPEN":   http.StatusConflict,
	"REGISTER_NAME_TAKEN":     http.StatusConflict,
	"REGISTER_HAS_OPEN_SHIFT": http.StatusConflict,
	"SHIFT_ALREADY_CLOSED":    http.StatusConflict,

	// Permission
	"AUTHORIZER_NOT_PERMITTED": http.StatusForbidden,
	"SHIFT_BRANCH_MISMATCH":    http.StatusForbidden,

	// State
	"INVALID_STATE":          http.StatusUnprocessableEntity,
	"OPERATOR_INACTIVE":      http.StatusUnprocessableEntity,
	"REGISTER_INACTIVE":      http.StatusUnprocessableEntity,
	"SHIFT_CLOSED":           http.StatusUnprocessableEntity,
	"SHIFT_REQUIRED":         http.StatusUnprocessableEntity,
	"SHIFT_NOT_OPEN":         http.StatusUnprocessableEntity,
	"AUTHORIZATION_REQUIRED": http.StatusUnprocessableEntity,
	"INVALID_TRANSITION":     http.StatusUnprocessableEntity,
	"ALREADY_TERMINAL":       http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status for an error code. Unlisted INVALID_*
// codes are validation failures (400); any other unlisted code is a business
// rule rejection (422).
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusUnprocessableEntity
}

// ErrorStatus resolves the status, code and client message for err.
// Errors that are not domain errors become a 500 with a generic message.
func ErrorStatus(err error) (int, string, string) {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return GetHTTPStatus(de.Code), de.Code, de.Message
	}
	return http.StatusInternalServerError, ErrCodeInternal, "An unexpected error occurred"
}
