package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrRejected     = errors.New("request rejected by server")
	ErrBadResponse  = errors.New("malformed server response")
	ErrInvalidInput = errors.New("invalid client input")
)

// StatusError is returned for non-2xx responses. It matches ErrRejected.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.Code)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.Code, e.Body)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrRejected
}
