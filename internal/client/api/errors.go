package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a rejection the backend responded with. Transport failures
// (connection refused, timeouts) are returned as plain errors instead,
// so callers can tell "the server said no" from "the server is unreachable".
type Error struct {
	// Status is the HTTP status code of the response.
	Status int
	// Message is the error message from the response payload, or the raw
	// body when the payload was not the expected shape.
	Message string
	// Path is the request path that produced the rejection.
	Path string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %s: %d %s", e.Path, e.Status, e.Message)
}

// AsError unwraps err into an *Error if the failure came from a backend
// response.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsAuthRejected reports whether err is a 401 or 403 backend response.
func IsAuthRejected(err error) bool {
	apiErr, ok := AsError(err)
	return ok && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden)
}
