package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes carried to clients. The numeric suffix mirrors the HTTP
// status the REST layer maps the error to.
const (
	CodeValidation     = "EMO-400"
	CodeAuthentication = "EMO-401"
	CodeAuthorization  = "EMO-403"
	CodeNotFound       = "EMO-404"
	CodeConflict       = "EMO-409"
	CodeInternal       = "EMO-500"
)

type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func Wrap(err error, code, message string) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func Validation(message string) *AppError {
	return New(CodeValidation, message)
}

func Authentication(message string) *AppError {
	return New(CodeAuthentication, message)
}

func Authorization(message string) *AppError {
	return New(CodeAuthorization, message)
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message)
}

func Conflict(message string) *AppError {
	return New(CodeConflict, message)
}

func Internal(err error) *AppError {
	return Wrap(err, CodeInternal, "internal error")
}

// From normalizes any error into an AppError. Unexpected errors become
// internal errors so raw details never reach clients.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// HTTPStatus maps an error code to its HTTP status.
func HTTPStatus(code string) int {
	switch code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeAuthentication:
		return http.StatusUnauthorized
	case CodeAuthorization:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
