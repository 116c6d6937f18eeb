package client

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSubmissionFailed reports a failed job submission or worker
	// configuration request.
	ErrSubmissionFailed = errors.New("submission failed")
	// ErrFetchFailed reports a failed snapshot, download or version read.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrConversionFailed reports a failed synchronous conversion or colour
	// identification.
	ErrConversionFailed = errors.New("conversion failed")
)

const maxErrorBody = 512

// StatusError is a non-2xx response.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string

	kind error
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody] + "..."
	}
	if body == "" {
		return fmt.Sprintf("%s: %s: http %d", e.kind, e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s: http %d: %s", e.kind, e.Endpoint, e.StatusCode, body)
}

func (e *StatusError) Unwrap() error {
	return e.kind
}
