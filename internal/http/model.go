package http

import (
	"io"
	"net/http"
	"strings"
)

// Request describes one HTTP exchange. It is a plain value: the client
// never mutates it, and a followed redirect derives a new Request
// instead of changing the current one in place.
type Request struct {
	Method string
	URL    string
	Body   interface{}
	Header http.Header

	// Proxy optionally routes this request through an http(s) proxy,
	// given as a proxy URL. It takes precedence over the dialer-level
	// proxy callback.
	Proxy string

	// MaxRedirects is the redirect hop budget. Zero means a single
	// attempt with no redirect following at all, which is also the
	// zero-value behavior.
	MaxRedirects int

	// CheckStatus decides whether the final (non-redirect) response
	// counts as success. Nil means [DefaultCheckStatus]. The predicate
	// travels with the request, it is not re-evaluated per hop.
	CheckStatus func(status int, header http.Header) bool

	// Decompress decides, from the response headers, whether the body
	// stream should be transparently decompressed. Nil means never.
	// [DecompressByEncoding] enables it for known Content-Encodings.
	Decompress func(header http.Header) bool

	// RawBody bypasses chunked framing for request bodies of unknown
	// length. The bytes are written to the connection as-is and the
	// caller is responsible for delimiting them.
	RawBody bool
}

type Response struct {
	Proto      string
	Status     string
	StatusCode int
	Header     http.Header

	ContentLength int64

	// Body is a lazy, single-consumer byte stream bound to the leased
	// connection. Reading it to EOF or closing it disposes the lease
	// exactly once; Close is a no-op after the first disposition.
	Body io.ReadCloser
}

// DefaultCheckStatus accepts 2xx and 3xx responses.
func DefaultCheckStatus(status int, _ http.Header) bool {
	return status >= 200 && status < 400
}

// DecompressByEncoding reports whether the response declares a
// Content-Encoding the transport knows how to undo.
func DecompressByEncoding(header http.Header) bool {
	switch strings.ToLower(header.Get("Content-Encoding")) {
	case "gzip", "deflate", "br", "zstd":
		return true
	}
	return false
}
