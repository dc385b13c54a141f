package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport is matched by every *TransportError
	ErrTransport = errors.New("inference transport failure")

	// ErrParse is returned when a model response has no usable JSON array
	ErrParse = errors.New("unparseable inference response")

	// ErrCountMismatch is returned when a response does not cover every item of the batch
	ErrCountMismatch = errors.New("inference response item count mismatch")

	// ErrInvalidConfiguration is returned when endpoint or pipeline settings are unusable
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrCacheMiss is returned when an item is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)

// TransportCause tags what went wrong on the wire.
type TransportCause string

const (
	CauseConnect TransportCause = "connect"
	CauseTimeout TransportCause = "timeout"
	CauseStatus  TransportCause = "status"
	CauseDecode  TransportCause = "decode"
	CauseRequest TransportCause = "request"
)

// TransportError is the single error kind produced by the inference transport.
type TransportError struct {
	Cause TransportCause
	Op    string // endpoint path, e.g. "/generate"
	Err   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %s: %v", ErrTransport, e.Op, e.Cause, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrTransport) match any transport error.
func (e *TransportError) Is(target error) bool { return target == ErrTransport }
