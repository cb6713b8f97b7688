package domain

import (
	"errors"
	"fmt"
)

var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrDuplicateAccount  = errors.New("account already exists")
	ErrLastAccount       = errors.New("cannot remove the last account")
	ErrNoActiveAccount   = errors.New("no active account")
	ErrMissingToken      = errors.New("account has no api token")
	ErrInvalidStatus     = errors.New("invalid rental status")
	ErrInvalidTransition = errors.New("invalid rental status transition")
	ErrSecretNotFound    = errors.New("secret not found")
)

// TransportError reports a network failure or a non-success HTTP status.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: HTTP %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RemoteError is an API-level rejection carried in a successful HTTP response.
type RemoteError struct {
	Op      string
	Code    string
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func IsTransportError(err error) bool {
	var target *TransportError
	return errors.As(err, &target)
}

func AsRemoteError(err error) (*RemoteError, bool) {
	var target *RemoteError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}
