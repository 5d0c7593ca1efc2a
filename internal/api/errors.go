package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrExhausted    = errors.New("all server addresses failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNoAddress    = errors.New("no server address configured")
	ErrEmptyData    = errors.New("response carries no data")
)

// StatusError is a non-2xx answer from a reachable server.
type StatusError struct {
	Address    string
	StatusCode int
	Message    string   // server "message" field
	Errors     []string // server field-level "errors"
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if len(e.Errors) > 0 {
		msg += " (" + strings.Join(e.Errors, "; ") + ")"
	}
	return fmt.Sprintf("status %d from %s: %s", e.StatusCode, e.Address, msg)
}

func (e *StatusError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// NetworkError is the only error Do surfaces: every candidate address failed.
// Err is the last error observed.
type NetworkError struct {
	Message  string
	Attempts int
	Err      error
}

func (e *NetworkError) Error() string {
	return e.Message
}

func (e *NetworkError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrExhausted}
	}
	return []error{ErrExhausted, e.Err}
}

func newNetworkError(attempts int, last error) *NetworkError {
	var message string
	var statusErr *StatusError

	switch {
	case last == nil:
		message = ErrNoAddress.Error()
	case errors.As(last, &statusErr) && statusErr.Message != "":
		message = statusErr.Message
	case errors.As(last, &statusErr):
		message = fmt.Sprintf("request failed with status %d", statusErr.StatusCode)
	default:
		message = "network request failed: " + last.Error()
	}

	return &NetworkError{Message: message, Attempts: attempts, Err: last}
}

// UserMessage returns the text a surface shows for err.
func UserMessage(err error) string {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Message
	}
	return err.Error()
}
