package jsonapi

import (
	"strconv"
)

// NewError creates an Error with the given status, code, and title.
func NewError(status int, code, title, detail string) Error {
	return Error{
		Status: strconv.Itoa(status),
		Code:   code,
		Title:  title,
		Detail: detail,
	}
}

// StatusCode returns the HTTP status code as an int.
func (e Error) StatusCode() int {
	code, _ := strconv.Atoi(e.Status)
	return code
}

// ErrBadParameter creates a 400 error pointing at a query parameter.
func ErrBadParameter(param, detail string) Error {
	e := NewError(400, "bad_request", "Bad Request", detail)
	e.Source = &ErrorSource{Parameter: param}
	return e
}

// ErrNotFound creates a 404 Not Found error.
func ErrNotFound(resourceType string) Error {
	return NewError(404, "not_found", "Not Found", resourceType+" not found")
}

// ErrServiceUnavailable creates a 503 error.
func ErrServiceUnavailable(detail string) Error {
	if detail == "" {
		detail = "Service temporarily unavailable"
	}
	return NewError(503, "service_unavailable", "Service Unavailable", detail)
}

// ErrInternal creates a 500 Internal Server Error.
func ErrInternal(detail string) Error {
	if detail == "" {
		detail = "An unexpected error occurred"
	}
	return NewError(500, "internal_error", "Internal Server Error", detail)
}
