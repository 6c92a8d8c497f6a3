// Package apperr carries coded application errors across service and
// transport boundaries. Every error maps to a machine-readable code and an
// HTTP status, with optional structured detail for the response body.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	CodeNotFound              = "NOT_FOUND"
	CodeValidationError       = "VALIDATION_ERROR"
	CodeInvalidPlacement      = "INVALID_PLACEMENT"
	CodeInvalidProductProfile = "INVALID_PRODUCT_PROFILE"
	CodeInvalidMachineProfile = "INVALID_MACHINE_PROFILE"
	CodePreflightFailed       = "PREFLIGHT_FAILED"
	CodeForbidden             = "FORBIDDEN"
	CodeInternal              = "INTERNAL_ERROR"
)

type Error struct {
	Code    string
	Status  int
	Message string
	Details any
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		return e.Code
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an application error with an explicit status and code.
func New(status int, code, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// WithDetails attaches structured detail for the error response body.
func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

func NotFound(what string) *Error {
	return New(http.StatusNotFound, CodeNotFound, fmt.Sprintf("%s not found", what))
}

func Forbidden() *Error {
	return New(http.StatusForbidden, CodeForbidden, "Forbidden")
}

func Internal(err error) *Error {
	appErr := New(http.StatusInternalServerError, CodeInternal, "internal error")
	appErr.Cause = err
	return appErr
}

// From extracts the application error from err, or wraps it as internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// IsCode checks whether err (or a wrapped err) carries the given code.
func IsCode(err error, code string) bool {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Code == code
}
