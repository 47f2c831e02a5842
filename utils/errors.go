package utils

import (
	"errors"
	"net/http"
)

// APIError is an error that knows which HTTP status it maps to. Handlers
// hand it to gin with c.Error and the error middleware renders it.
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error { return e.Err }

func NewAPIError(status int, message string, err error) *APIError {
	return &APIError{Status: status, Message: message, Err: err}
}

func BadRequest(message string, err error) *APIError {
	return NewAPIError(http.StatusBadRequest, message, err)
}

func Unauthorized(message string) *APIError {
	return NewAPIError(http.StatusUnauthorized, message, nil)
}

func Forbidden(message string) *APIError {
	return NewAPIError(http.StatusForbidden, message, nil)
}

func NotFound(message string) *APIError {
	return NewAPIError(http.StatusNotFound, message, nil)
}

// BadGateway wraps a failure of an upstream service such as the media host.
func BadGateway(message string, err error) *APIError {
	return NewAPIError(http.StatusBadGateway, message, err)
}

func Internal(message string, err error) *APIError {
	return NewAPIError(http.StatusInternalServerError, message, err)
}

// AsAPIError unwraps err into an *APIError when one is in the chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
