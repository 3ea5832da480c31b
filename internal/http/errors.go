package http

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	errUnsupportedScheme = errors.New("unsupported scheme")
	errInvalidHost       = errors.New("missing or invalid host")
)

// InvalidURLError reports a request target that could not be parsed
// into a usable descriptor. It carries the offending string.
type InvalidURLError struct {
	URL string
	Err error
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid url %q: %v", e.URL, e.Err)
}

func (e *InvalidURLError) Unwrap() error { return e.Err }

// HeaderError reports a header the caller may not set, either because
// its name or value is malformed or because the transport computes it.
type HeaderError struct {
	Name   string
	Reason string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("header %q: %s", e.Name, e.Reason)
}

// BodyTypeError reports a request body value the client does not know
// how to serialize.
type BodyTypeError struct {
	Body interface{}
}

func (e *BodyTypeError) Error() string {
	return fmt.Sprintf("unsupported body type: %T", e.Body)
}

// TransportError is a dial, write or read failure at the byte level.
type TransportError struct {
	Op  string // "dial", "write" or "read"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError reports a malformed status line, header block or body
// framing in the peer's response.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string {
	return "malformed response: " + e.Reason
}

// TooManyRedirectsError reports that the hop budget ran out while the
// server was still redirecting.
type TooManyRedirectsError struct {
	URL  string // target of the redirect that was not followed
	Hops int    // budget that was exhausted
}

func (e *TooManyRedirectsError) Error() string {
	return fmt.Sprintf("stopped after %d redirects (next %q)", e.Hops, e.URL)
}

// StatusRejectedError reports that the final response failed the
// request's status checker. It keeps the response metadata, and up to
// [SnippetSize] bytes of the body, for diagnostics.
type StatusRejectedError struct {
	Status  int
	Header  http.Header
	Snippet []byte
}

// SnippetSize bounds the body prefix captured into a
// [StatusRejectedError].
const SnippetSize = 512

func (e *StatusRejectedError) Error() string {
	return fmt.Sprintf("response status %d rejected", e.Status)
}
