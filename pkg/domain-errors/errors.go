// Package domainerrors carries coded domain errors across layer boundaries.
//
// Services return these so transport layers can translate them into HTTP
// statuses without inspecting error strings. Stores return sentinel errors
// (pkg/platform/sentinel) and services wrap them into coded errors here.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is the machine-readable discriminant carried by every domain error.
type Code string

const (
	CodeBadRequest         Code = "bad_request"
	CodeValidation         Code = "validation_error"
	CodeInvalidInput       Code = "invalid_input"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeInvariantViolation Code = "invariant_violation"
	CodeInternal           Code = "internal_error"

	// Scheduling validation codes. Kept distinct rather than folded into
	// CodeValidation so callers and tests can assert the exact failure.
	CodeMissingProfiles   Code = "missing_profiles"
	CodeMissingTimezone   Code = "missing_timezone"
	CodeMissingDates      Code = "missing_dates"
	CodeInvalidDateFormat Code = "invalid_date_format"
	CodeInvalidDateRange  Code = "invalid_date_range"
	CodePastStartDate     Code = "past_start_date"
)

// Error is a coded domain error with a human-readable message.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New builds a domain error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error, preserving the
// cause for errors.Is/errors.As chains.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// CodeOf extracts the code from an error chain. Non-domain errors report
// CodeInternal so unexpected failures never leak as client errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf extracts the human-readable message from an error chain.
// Non-domain errors get a generic message; their details stay server-side.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return "Something went wrong"
}

// Is reports whether any error in the chain carries the given code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}

// HasCode is an alias of Is kept for call sites that read better with it.
func HasCode(err error, code Code) bool {
	return Is(err, code)
}

// IsClientError reports whether the code maps to a 4xx status.
func IsClientError(code Code) bool {
	s := ToHTTPStatus(code)
	return s >= 400 && s < 500
}

// ToHTTPStatus maps a domain error code to an HTTP status. Validation and
// conflict failures are 400-class, lookup misses 404, everything else 500.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeValidation, CodeInvalidInput, CodeInvariantViolation,
		CodeMissingProfiles, CodeMissingTimezone, CodeMissingDates,
		CodeInvalidDateFormat, CodeInvalidDateRange, CodePastStartDate,
		CodeConflict:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
