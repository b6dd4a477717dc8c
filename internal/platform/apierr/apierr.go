package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeUnauthorized = "unauthorized"
	CodeNotFound     = "not_found"
	CodeInvalidInput = "invalid_input"
	CodeInternal     = "internal_error"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func Unauthenticated() *Error {
	return New(http.StatusUnauthorized, CodeUnauthorized, errors.New("Unauthorized"))
}

// NotFound is also returned for rows the caller does not own.
func NotFound() *Error {
	return New(http.StatusNotFound, CodeNotFound, errors.New("Not found"))
}

func InvalidInput(msg string) *Error {
	return New(http.StatusBadRequest, CodeInvalidInput, errors.New(msg))
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e, true
	}
	return nil, false
}

func IsStatus(err error, status int) bool {
	e, ok := As(err)
	return ok && e.Status == status
}
