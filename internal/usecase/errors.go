package usecase

import (
	"errors"
	"fmt"
	"net/http"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// よく使うもの
func errUnauthorized() error { return NewHTTPError(http.StatusUnauthorized, "unauthorized") }
func errNotFound() error     { return NewHTTPError(http.StatusNotFound, "not found") }
func errForbidden() error    { return NewHTTPError(http.StatusForbidden, "forbidden") }
func errDB() error           { return NewHTTPError(http.StatusInternalServerError, "db error") }
func errInvalid(msg string) error {
	return NewHTTPError(http.StatusBadRequest, msg)
}
func errConflict(msg string) error {
	return NewHTTPError(http.StatusConflict, msg)
}
