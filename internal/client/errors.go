package client

import (
	"errors"
	"fmt"
)

// ErrTooEarly reports HTTP 425 from the origin: it is temporarily overloaded
// and the request may be retried shortly. This layer never retries it itself;
// callers match with errors.Is to tell "try again" apart from "this failed".
var ErrTooEarly = errors.New("origin overloaded (HTTP 425), retry later")

// maxErrorBody bounds the response excerpt carried by RequestError.
const maxErrorBody = 500

// RequestError is any other non-success HTTP response. It carries the status
// code and a bounded excerpt of the body for diagnostics.
type RequestError struct {
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Body)
}

func truncateBody(body string) string {
	if len(body) > maxErrorBody {
		return body[:maxErrorBody]
	}
	return body
}
