package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport marks a call where no complete HTTP response was received.
	ErrTransport = errors.New("transport failure")
	// ErrEncodeRequest is returned when the request body cannot be encoded as JSON.
	ErrEncodeRequest = errors.New("failed to encode request body")
)

// Error reports a call whose attempts were all spent on transport failures.
type Error struct {
	Endpoint string
	Attempts int
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: POST %s failed after %d attempt(s): %v", ErrTransport, e.Endpoint, e.Attempts, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}

func IsTransportError(err error) bool {
	return errors.Is(err, ErrTransport)
}
