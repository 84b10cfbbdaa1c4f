package catalog

import (
	"errors"
	"fmt"
	"net/http"
)

// NotFoundError is returned when an update or delete matches no record, or
// when an admin lookup names a collection that was never referenced.
type NotFoundError struct {
	Collection string
	Key        string
}

func (e *NotFoundError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("collection %q has no record with key %q", e.Collection, e.Key)
	}
	return fmt.Sprintf("collection %q not found", e.Collection)
}

// StatusCode returns the HTTP status code for this error.
func (e *NotFoundError) StatusCode() int {
	return http.StatusNotFound
}

// Hint returns a user-friendly suggestion for resolving this error.
func (e *NotFoundError) Hint() string {
	if e.Key != "" {
		return fmt.Sprintf("No record in %q carries key %q. Use GET /%s to list available records.", e.Collection, e.Key, e.Collection)
	}
	return fmt.Sprintf("Collection %q has not been referenced yet.", e.Collection)
}

// ValidationError is returned when a request body cannot be used.
type ValidationError struct {
	Message string
	Field   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return e.Message
}

// StatusCode returns the HTTP status code for this error.
func (e *ValidationError) StatusCode() int {
	return http.StatusBadRequest
}

// Hint returns a user-friendly suggestion for resolving this error.
func (e *ValidationError) Hint() string {
	return "Send a JSON object as the request body."
}

// PayloadTooLargeError is returned when a request body exceeds the limit.
type PayloadTooLargeError struct {
	MaxSize int64
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("request body too large: max %d bytes allowed", e.MaxSize)
}

// StatusCode returns the HTTP status code for this error.
func (e *PayloadTooLargeError) StatusCode() int {
	return http.StatusRequestEntityTooLarge
}

// Hint returns a user-friendly suggestion for resolving this error.
func (e *PayloadTooLargeError) Hint() string {
	return fmt.Sprintf("Reduce request body size to under %d bytes.", e.MaxSize)
}

// StatusCodeError is an error that carries an HTTP status code.
type StatusCodeError interface {
	error
	StatusCode() int
}

// HintError is an error that provides a resolution hint.
type HintError interface {
	error
	Hint() string
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// ToErrorResponse converts an error to the client-facing error object.
func ToErrorResponse(err error) *ErrorResponse {
	resp := &ErrorResponse{}

	var (
		nf  *NotFoundError
		ve  *ValidationError
		ptl *PayloadTooLargeError
	)
	switch {
	case errors.As(err, &nf):
		resp.Error = "Entity not found"
		resp.Entity = nf.Collection
		resp.Key = nf.Key
		resp.Hint = nf.Hint()
		resp.StatusCode = nf.StatusCode()
	case errors.As(err, &ve):
		resp.Error = "invalid request"
		resp.Detail = ve.Message
		resp.Field = ve.Field
		resp.Hint = ve.Hint()
		resp.StatusCode = ve.StatusCode()
	case errors.As(err, &ptl):
		resp.Error = "payload too large"
		resp.Detail = ptl.Error()
		resp.Hint = ptl.Hint()
		resp.StatusCode = ptl.StatusCode()
	default:
		resp.Error = "internal error"
		resp.Detail = err.Error()
		resp.StatusCode = http.StatusInternalServerError
	}

	return resp
}
