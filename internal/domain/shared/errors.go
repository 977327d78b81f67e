package shared

import "errors"

// ErrorKind classifies a DomainError beyond its code
type ErrorKind uint8

const (
	KindUnspecified ErrorKind = iota
	// KindConflict marks errors raised by a store-level uniqueness or
	// version check. They match ErrConflict under errors.Is.
	KindConflict
)

// codeConflict is the code of ErrConflict
const codeConflict = "CONFLICT"

// DomainError represents a domain-level error.
// Two DomainErrors are considered equal by errors.Is when their codes match,
// so callers can compare against the sentinels below regardless of message.
type DomainError struct {
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Kind    ErrorKind `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code. Every
// conflict-kind error also matches ErrConflict.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code || (t.Code == codeConflict && e.Kind == KindConflict)
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewConflictError creates a conflict-kind domain error
func NewConflictError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Kind:    KindConflict,
	}
}

// IsConflict reports whether err is a conflict-kind domain error
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewConflictError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConflict            = NewConflictError(codeConflict, "Resource conflicts with concurrent state, reload and retry")
	ErrConcurrencyConflict = NewConflictError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// CodeOf returns the DomainError code wrapped in err, or "" if there is none
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
