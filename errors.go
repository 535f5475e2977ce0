package lametric

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure returned by the package matches exactly one of
// these with errors.Is, except sound decoding failures which are reported as
// *UnknownSoundError or plain decode errors inside a *DecodingError.
var (
	ErrInvalidAPIKey       = errors.New("invalid API key")
	ErrInvalidURL          = errors.New("invalid URL")
	ErrInvalidResponse     = errors.New("invalid response")
	ErrTimeout             = errors.New("the request timed out; when using a local device name, make sure it is correct")
	ErrInvalidStatusCode   = errors.New("invalid status code")
	ErrEmptyResponse       = errors.New("empty response")
	ErrInvalidJSONResponse = errors.New("the response could not be parsed as JSON")
	ErrDecodingFailure     = errors.New("failed to decode JSON")
)

// StatusCodeError reports a non-2xx response.
type StatusCodeError struct {
	Code int
}

func (e *StatusCodeError) Error() string {
	return fmt.Sprintf("invalid status code: %d", e.Code)
}

// Is matches ErrInvalidStatusCode.
func (e *StatusCodeError) Is(target error) bool {
	return target == ErrInvalidStatusCode
}

// DecodingError reports a 2xx payload that does not match the expected
// shape. Payload is a readable rendering of the body.
type DecodingError struct {
	Payload string
	Err     error
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("failed to decode JSON: %s\nerror: %v", e.Payload, e.Err)
}

// Unwrap returns the underlying decode error.
func (e *DecodingError) Unwrap() error { return e.Err }

// Is matches ErrDecodingFailure.
func (e *DecodingError) Is(target error) bool {
	return target == ErrDecodingFailure
}
