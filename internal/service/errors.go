package service

import "errors"

// ErrEntropySourceUnavailable is returned when the secure random source cannot produce bytes.
// Issuance never falls back to a weaker source.
var ErrEntropySourceUnavailable = errors.New("entropy source unavailable")

// HTTPError represents an error with an associated HTTP status code.
// TODO(future): it is probably not optimal to tie service errors to HTTP layer. We should refactor this later. :)
type HTTPError struct {
	StatusCode int
	Wrapped    error
}

func (e HTTPError) Error() string {
	return e.Wrapped.Error()
}

func (e HTTPError) Unwrap() error {
	return e.Wrapped
}

func httpError(statusCode int, err error) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Wrapped:    err,
	}
}

// StatusCode returns the HTTP status attached to err, or fallback.
func StatusCode(err error, fallback int) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode
	}
	return fallback
}
