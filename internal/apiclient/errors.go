package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrMissingBaseURL is returned by New when no backend base URL is configured.
var ErrMissingBaseURL = errors.New("apiclient: base URL is required")

// Kind classifies an HTTPError by status code.
type Kind string

const (
	KindBadRequest Kind = "bad_request"
	KindAuth       Kind = "auth"
	KindNotFound   Kind = "not_found"
	KindServer     Kind = "server"
	KindOther      Kind = "other"
)

// HTTPError is returned when the backend answers with a non-2xx status.
type HTTPError struct {
	Method  string
	URL     string
	Status  int
	Message string
	// Body is the decoded JSON error body, nil when the body was not a JSON object.
	Body map[string]any
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Message)
}

// Kind reports the status class of the failure.
func (e *HTTPError) Kind() Kind {
	switch {
	case e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity:
		return KindBadRequest
	case e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden:
		return KindAuth
	case e.Status == http.StatusNotFound:
		return KindNotFound
	case e.Status >= 500:
		return KindServer
	default:
		return KindOther
	}
}

// BackendMessage returns the human readable message the backend put in the
// error body, or "" when it sent none.
func (e *HTTPError) BackendMessage() string {
	return messageFrom(e.Body)
}

// NetworkError wraps transport failures: DNS, refused connections, timeouts.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: network error: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request gave up waiting for the backend.
func (e *NetworkError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// DataShapeError reports a 2xx response whose body did not have the expected shape.
type DataShapeError struct {
	Endpoint string
	Detail   string
	Err      error
}

func (e *DataShapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unexpected response from %s: %s: %v", e.Endpoint, e.Detail, e.Err)
	}
	return fmt.Sprintf("unexpected response from %s: %s", e.Endpoint, e.Detail)
}

func (e *DataShapeError) Unwrap() error {
	return e.Err
}

// StatusOf returns the HTTP status carried by err, or 0 if err is not an HTTPError.
func StatusOf(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Status
	}
	return 0
}

// IsNotFound reports whether the backend answered 404.
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

// IsNetwork reports whether err is a transport failure.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

var messageKeys = []string{"message", "detail", "error"}

func messageFrom(body map[string]any) string {
	for _, key := range messageKeys {
		if s, ok := body[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
