// ABOUTME: Session error types
// ABOUTME: Separates transport failures from authentication rejections
package session

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by requests on a closed session
var ErrClosed = errors.New("session closed")

// IOError is a transport failure: the endpoint was unreachable or the
// connection broke. Another endpoint may work.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("session %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// AuthenticationError is a credential rejection by the access point
type AuthenticationError struct {
	Code   int
	Reason string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed (code %d): %s", e.Code, e.Reason)
}

// IsAuthentication reports whether err is an authentication rejection
func IsAuthentication(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}
