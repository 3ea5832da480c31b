// package fetch is an HTTP/1.1 client built directly on pooled raw
// connections. A [Request] describes one exchange; [Client.CtxDo]
// performs it, following redirects within the request's hop budget,
// recovering once from stale pooled connections, and handing back a
// [Response] whose body streams straight off the leased connection.
package fetch

import (
	"net/http"

	"github.com/frankli0324/go-fetch/internal"
	internalhttp "github.com/frankli0324/go-fetch/internal/http"
)

type Client = internal.Client
type Header = http.Header
type Request = internalhttp.Request
type PreparedRequest = internalhttp.PreparedRequest
type Response = internalhttp.Response
type Settings = internalhttp.Settings

type Middleware = internal.Middleware
type Handler = internal.Handler
type Logger = internalhttp.Logger

// typed failures returned by the client; match with errors.As
type InvalidURLError = internalhttp.InvalidURLError
type HeaderError = internalhttp.HeaderError
type TransportError = internalhttp.TransportError
type ProtocolError = internalhttp.ProtocolError
type TooManyRedirectsError = internalhttp.TooManyRedirectsError
type StatusRejectedError = internalhttp.StatusRejectedError

// DefaultSettings returns the documented default configuration.
func DefaultSettings() Settings { return internalhttp.DefaultSettings() }

// DefaultCheckStatus accepts 2xx and 3xx responses; it is the status
// checker used when [Request.CheckStatus] is nil.
func DefaultCheckStatus(status int, header Header) bool {
	return internalhttp.DefaultCheckStatus(status, header)
}

// DecompressByEncoding enables transparent decompression whenever the
// response declares a known Content-Encoding.
func DecompressByEncoding(header Header) bool {
	return internalhttp.DecompressByEncoding(header)
}
