package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an AppError so callers can tell "nothing to do" from
// "rejected" from "infrastructure problem" without parsing messages.
type Kind string

const (
	KindProfileNotFound        Kind = "PROFILE_NOT_FOUND"
	KindInvalidTransition      Kind = "INVALID_TRANSITION"
	KindConcurrentModification Kind = "CONCURRENT_MODIFICATION"
	KindPersistenceFailure     Kind = "PERSISTENCE_FAILURE"
	KindValidation             Kind = "VALIDATION"
	KindUnauthorized           Kind = "UNAUTHORIZED"
	KindForbidden              Kind = "FORBIDDEN"
	KindNotFound               Kind = "NOT_FOUND"
	KindConflict               Kind = "CONFLICT"
	KindRateLimited            Kind = "RATE_LIMITED"
	KindInternal               Kind = "INTERNAL"
)

type AppError struct {
	Code    int                    `json:"code"`
	Kind    Kind                   `json:"kind"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Err     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail attaches a context value and returns the same error for chaining.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kindForCode(code),
		Message: message,
		Err:     err,
	}
}

func kindForCode(code int) Kind {
	switch code {
	case http.StatusBadRequest:
		return KindValidation
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	case http.StatusTooManyRequests:
		return KindRateLimited
	default:
		return KindInternal
	}
}

func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, message, nil)
}

func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, message, nil)
}

func Forbidden(message string) *AppError {
	return New(http.StatusForbidden, message, nil)
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message, nil)
}

func Conflict(message string) *AppError {
	return New(http.StatusConflict, message, nil)
}

func TooManyRequests(message string) *AppError {
	return New(http.StatusTooManyRequests, message, nil)
}

func Internal(err error) *AppError {
	return New(http.StatusInternalServerError, "Internal Server Error", err)
}

// ProfileNotFound is a defined outcome for readiness checks; workflow callers
// surface it as 404.
func ProfileNotFound(ref interface{}) *AppError {
	return (&AppError{
		Code:    http.StatusNotFound,
		Kind:    KindProfileNotFound,
		Message: "Candidate profile not found",
	}).WithDetail("profile", ref)
}

// InvalidTransition reports an illegal state/event pair or a missing
// required payload for an otherwise legal event.
func InvalidTransition(current, event, reason string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindInvalidTransition,
		Message: reason,
		Details: map[string]interface{}{
			"current_status": current,
			"event":          event,
		},
	}
}

// ConcurrentModification means a compare-and-swap lost against another writer.
func ConcurrentModification(expected, actual string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindConcurrentModification,
		Message: "Profile status was changed by another request",
		Details: map[string]interface{}{
			"expected_status": expected,
			"actual_status":   actual,
		},
	}
}

func PersistenceFailure(op string, err error) *AppError {
	return &AppError{
		Code:    http.StatusServiceUnavailable,
		Kind:    KindPersistenceFailure,
		Message: "Storage is temporarily unavailable",
		Details: map[string]interface{}{"operation": op},
		Err:     err,
	}
}

// IsKind reports whether err (or anything it wraps) is an AppError of kind k.
func IsKind(err error, k Kind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == k
	}
	return false
}
