package lametric

import (
	"net/http"
	"unicode/utf8"
)

const (
	emptyPlaceholder       = "[Empty Response]"
	invalidUTF8Placeholder = "[Invalid UTF-8]"
)

// RawResponse is the undecoded result of one request.
type RawResponse struct {
	Body       []byte
	StatusCode int
}

// Response wraps a RawResponse and decodes it into T on demand.
//
// A decode is attempted once at construction; the result is only a cache.
// Required decodes again when that first attempt did not succeed. A Response
// is never modified after construction and is safe to share.
type Response[T any] struct {
	raw     RawResponse
	decoded *T
}

// NewResponse builds a Response, eagerly decoding non-empty bodies.
func NewResponse[T any](raw RawResponse) Response[T] {
	r := Response[T]{raw: raw}
	if len(raw.Body) > 0 {
		var v T
		if err := wire.Unmarshal(raw.Body, &v); err == nil {
			r.decoded = &v
		}
	}
	return r
}

// StatusCode returns the HTTP status code.
func (r Response[T]) StatusCode() int { return r.raw.StatusCode }

// Body returns a copy of the raw payload.
func (r Response[T]) Body() []byte {
	return append([]byte(nil), r.raw.Body...)
}

// Valid reports whether the status code is in [200, 300).
func (r Response[T]) Valid() bool {
	return r.raw.StatusCode >= http.StatusOK && r.raw.StatusCode < http.StatusMultipleChoices
}

// Decoded returns the value decoded at construction, if any.
func (r Response[T]) Decoded() (T, bool) {
	if r.decoded == nil {
		var zero T
		return zero, false
	}
	return *r.decoded, true
}

// Required returns the decoded payload of a successful response.
//
// Failures, in order of precedence: *StatusCodeError for a non-2xx status
// whatever the body; ErrEmptyResponse for a 2xx without body; *DecodingError
// when the body does not match T.
func (r Response[T]) Required() (T, error) {
	var zero T
	if !r.Valid() {
		return zero, &StatusCodeError{Code: r.raw.StatusCode}
	}
	if len(r.raw.Body) == 0 {
		return zero, ErrEmptyResponse
	}
	if r.decoded != nil {
		return *r.decoded, nil
	}
	var v T
	if err := wire.Unmarshal(r.raw.Body, &v); err != nil {
		return zero, &DecodingError{Payload: r.renderPayload(), Err: err}
	}
	return v, nil
}

// PrettyJSON pretty-prints the payload, failing with ErrInvalidJSONResponse
// when it is not JSON.
func (r Response[T]) PrettyJSON() (string, error) {
	if len(r.raw.Body) == 0 {
		return "", ErrEmptyResponse
	}
	pretty, err := wire.Indent(r.raw.Body)
	if err != nil {
		return "", ErrInvalidJSONResponse
	}
	return pretty, nil
}

// PrettyPrinted renders the payload for humans and never fails: indented
// JSON when possible, otherwise the raw text, otherwise a placeholder.
func (r Response[T]) PrettyPrinted() string {
	if len(r.raw.Body) == 0 {
		return emptyPlaceholder
	}
	return r.renderPayload()
}

func (r Response[T]) renderPayload() string {
	if pretty, err := r.PrettyJSON(); err == nil {
		return pretty
	}
	if !utf8.Valid(r.raw.Body) {
		return invalidUTF8Placeholder
	}
	return string(r.raw.Body)
}
