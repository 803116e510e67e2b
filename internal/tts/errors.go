package tts

import (
	"errors"
	"fmt"
)

// ErrEmptyText is returned when the input text is empty or whitespace-only.
// It is reported before any network call is made.
var ErrEmptyText = errors.New("text cannot be empty")

// UpstreamError reports a failure signaled by the upstream envelope, such as
// an unknown speaker or an expired session credential. The HTTP exchange
// itself succeeded.
type UpstreamError struct {
	StatusCode int    // Envelope status_code, non-zero
	Message    string // Upstream status_msg or message, may be empty
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream returned status code %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream returned status code %d: %s", e.StatusCode, e.Message)
}

// TransportError reports a failure at the HTTP layer: connection refused,
// timeout, non-2xx response, and the like.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError reports a response that could not be turned into audio bytes:
// a malformed JSON envelope, a success envelope with no audio payload, or a
// payload that is not valid base64.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode failure: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
