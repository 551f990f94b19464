package providers

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMissingCredentials means the provider needs a key that is not set.
	ErrMissingCredentials = errors.New("missing credentials")
	// ErrUnauthorized means the provider rejected the configured credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrTransient marks failures worth retrying: throttling and 5xx gateways.
	ErrTransient = errors.New("transient provider failure")
	// ErrMalformedResponse means the payload did not have the expected shape.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrInvalidLabel means a title cannot be turned into a DNS label.
	ErrInvalidLabel = errors.New("invalid domain label")
)

// StatusError is returned for an unexpected HTTP status.
type StatusError struct {
	Provider   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: HTTP %d %s", e.Provider, e.StatusCode, http.StatusText(e.StatusCode))
}

// Unwrap exposes the sentinel matching the status class.
func (e *StatusError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized, e.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case isTransientStatus(e.StatusCode):
		return ErrTransient
	default:
		return nil
	}
}

func isTransientStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
