// Package apperror defines the error kinds the API reports to clients and
// the mapping from storage, decoding and validation failures onto them.
package apperror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Kind classifies an error for the response status
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindUnavailable
	KindTooManyRequests
)

const internalMessage = "Internal server error"

var kindInfo = map[Kind]struct {
	status int
	code   string
}{
	KindInternal:        {http.StatusInternalServerError, "INTERNAL_ERROR"},
	KindValidation:      {http.StatusBadRequest, "VALIDATION_ERROR"},
	KindUnauthenticated: {http.StatusUnauthorized, "UNAUTHENTICATED"},
	KindForbidden:       {http.StatusForbidden, "FORBIDDEN"},
	KindNotFound:        {http.StatusNotFound, "NOT_FOUND"},
	KindConflict:        {http.StatusConflict, "CONFLICT"},
	KindUnavailable:     {http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
	KindTooManyRequests: {http.StatusTooManyRequests, "RATE_LIMITED"},
}

// Error is an error with a client-facing message
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status returns the HTTP status code for the error kind
func (e *Error) Status() int {
	return kindInfo[e.Kind].status
}

// Code returns the machine-readable code for the error kind
func (e *Error) Code() string {
	return kindInfo[e.Kind].code
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *Error {
	return newError(KindValidation, format, args...)
}

func Unauthenticated(format string, args ...any) *Error {
	return newError(KindUnauthenticated, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return newError(KindForbidden, format, args...)
}

// NotFound builds the "<resource> not found" error
func NotFound(resource string) *Error {
	return newError(KindNotFound, "%s not found", resource)
}

func Conflict(format string, args ...any) *Error {
	return newError(KindConflict, format, args...)
}

func Unavailable(format string, args ...any) *Error {
	return newError(KindUnavailable, format, args...)
}

// TooManyRequests reports a client over its request budget
func TooManyRequests(format string, args ...any) *Error {
	return newError(KindTooManyRequests, format, args...)
}

// Internal wraps an unexpected error; the cause is never shown to clients
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: internalMessage, Err: err}
}

// Normalize maps any error onto an *Error.
// Unrecognised errors become KindInternal with a generic message.
func Normalize(err error) *Error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return &Error{Kind: KindValidation, Message: FormatValidationErrors(validationErrs), Err: err}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &Error{Kind: KindNotFound, Message: "Resource not found", Err: err}
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
		return &Error{Kind: KindConflict, Message: "Duplicate value violates a uniqueness constraint", Err: err}
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &Error{Kind: KindValidation, Message: "Request body is not valid JSON", Err: err}
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &Error{
			Kind:    KindValidation,
			Message: fmt.Sprintf("%s must be of type %s", typeErr.Field, typeErr.Type.String()),
			Err:     err,
		}
	}

	return Internal(err)
}

// isUniqueViolation catches driver errors that gorm did not translate
// (works with both PostgreSQL and SQLite messages)
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint")
}
