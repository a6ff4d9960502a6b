package client

import "fmt"

// APIError is a non-2xx answer from the backend, carrying the server's own
// error message when it sent one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server rejected request (%d): %s", e.StatusCode, e.Message)
}

// MalformedResponseError means the backend answered but the payload was
// missing or mistyping a required field.
type MalformedResponseError struct {
	Field  string
	Reason string
}

func (e *MalformedResponseError) Error() string {
	if e.Field == "" {
		return "malformed response: " + e.Reason
	}
	return fmt.Sprintf("malformed response (field %q): %s", e.Field, e.Reason)
}
