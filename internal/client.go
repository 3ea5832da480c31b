package internal

import (
	"context"
	"errors"
	"io"

	"github.com/frankli0324/go-fetch/internal/dialer"
	"github.com/frankli0324/go-fetch/internal/http"
	"github.com/frankli0324/go-fetch/internal/transport"
)

type PreparedRequest = http.PreparedRequest

type Handler = func(ctx context.Context, req *PreparedRequest) (*http.Response, error)
type Middleware func(next Handler) Handler

var h1 = transport.HTTP1{}

// Client executes prepared requests against pooled connections. The
// zero value is usable and runs with [http.DefaultSettings].
type Client struct {
	// Settings configures pooling capacities, the default redirect
	// budget for string-URL entry points and TLS verification. Set it
	// before the first request; it is read-only afterwards.
	Settings http.Settings

	middlewares []Middleware
	dialer      http.Dialer
}

// Use appends mw to the end of the chain. The last "Use"d mw executes
// first. Middlewares wrap single hops, so a followed redirect passes
// through the chain once per hop.
func (c *Client) Use(mws ...Middleware) {
	c.middlewares = append(c.middlewares, mws...)
}

// UseDialer swaps or wraps the dialer. Like Use, this is setup-time
// API, not safe to call concurrently with requests.
func (c *Client) UseDialer(wrap func(http.Dialer) http.Dialer) {
	c.dialer = wrap(c.currentDialer())
}

func (c *Client) currentDialer() http.Dialer {
	if c.dialer == nil {
		c.dialer = dialer.New(c.Settings)
	}
	return c.dialer
}

func (c *Client) logger() Logger {
	if c.Settings.Logger != nil {
		return c.Settings.Logger
	}
	return defaultLogger
}

// CtxDo executes req and returns the response with its body stream
// still open; consuming the body to EOF, or closing it, is what
// returns the underlying connection to the pool (or closes it).
//
// Redirects are followed up to req.MaxRedirects hops. A budget of zero
// means a single attempt with no redirect handling at all, so a 3xx
// response is returned like any other (subject to the status checker).
func (c *Client) CtxDo(ctx context.Context, req *http.Request) (*http.Response, error) {
	pr, err := req.Prepare()
	if err != nil {
		return nil, err
	}
	next := c.roundTrip
	for i := len(c.middlewares) - 1; i >= 0; i-- {
		next = c.middlewares[i](next)
	}

	budget := req.MaxRedirects
	for {
		resp, err := next(ctx, pr)
		if err != nil {
			return nil, err
		}
		if req.MaxRedirects > 0 {
			if method, location, ok := redirectTarget(resp, pr); ok {
				// the hop's body is never left open, drained or not
				drainBody(resp.Body)
				if budget == 0 {
					return nil, &http.TooManyRedirectsError{URL: location, Hops: req.MaxRedirects}
				}
				budget--
				c.logger().Debugf("<redirect> %s %s", method, location)
				if pr, err = pr.Redirected(method, location); err != nil {
					return nil, err
				}
				continue
			}
		}
		check := req.CheckStatus
		if check == nil {
			check = http.DefaultCheckStatus
		}
		if !check(resp.StatusCode, resp.Header) {
			snippet := snapshotBody(resp.Body)
			return nil, &http.StatusRejectedError{
				Status: resp.StatusCode, Header: resp.Header, Snippet: snippet,
			}
		}
		return resp, nil
	}
}

// CtxGet fetches url with a GET request using the settings' default
// redirect budget. The body streams; the caller must close it.
func (c *Client) CtxGet(ctx context.Context, url string) (*http.Response, error) {
	return c.CtxDo(ctx, &http.Request{
		Method:       "GET",
		URL:          url,
		MaxRedirects: c.Settings.WithDefaults().MaxRedirects,
	})
}

// CtxFetch executes req and buffers the whole body into memory,
// closing the stream before returning.
func (c *Client) CtxFetch(ctx context.Context, req *http.Request) ([]byte, *http.Response, error) {
	resp, err := c.CtxDo(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	b, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, resp, &http.TransportError{Op: "read", Err: err}
	}
	return b, resp, nil
}

// roundTrip performs one hop: lease a connection, write the request,
// parse the response. A transport-level failure on a reused lease
// means the pooled connection went stale between park and reuse; it is
// retried exactly once on a connection the pool is told to dial fresh.
// The same failure on a fresh lease is a real fault and propagates.
func (c *Client) roundTrip(ctx context.Context, pr *PreparedRequest) (*http.Response, error) {
	conn, err := c.currentDialer().Dial(ctx, pr)
	if err != nil {
		return nil, &http.TransportError{Op: "dial", Err: err}
	}
	resp, err := c.exchange(ctx, conn, pr)
	if err == nil {
		return resp, nil
	}
	var te *http.TransportError
	if !errors.As(err, &te) || !conn.Reused() {
		return nil, err
	}
	c.logger().Debugf("stale pooled connection (%v), retrying on a fresh one", err)
	ctx = http.ContextHintNewConn(ctx)
	conn, derr := c.currentDialer().Dial(ctx, pr)
	if derr != nil {
		return nil, &http.TransportError{Op: "dial", Err: derr}
	}
	return c.exchange(ctx, conn, pr)
}

// exchange writes one request and parses its response on conn. On
// success the response body owns the lease; on failure the lease is
// discarded here, no error path leaves it undecided.
func (c *Client) exchange(ctx context.Context, conn http.Conn, pr *PreparedRequest) (*http.Response, error) {
	if err := h1.Write(ctx, conn, pr); err != nil {
		conn.Discard()
		return nil, &http.TransportError{Op: "write", Err: err}
	}
	resp := &http.Response{}
	if err := h1.Read(ctx, conn, pr, resp); err != nil {
		conn.Discard()
		var pe *http.ProtocolError
		if errors.As(err, &pe) {
			return nil, err
		}
		return nil, &http.TransportError{Op: "read", Err: err}
	}
	return resp, nil
}

// drainLimit bounds how many leftover body bytes are read before
// giving up on the remainder; larger leftovers cost the connection
// (the body's Close discards it) instead of unbounded reads.
const drainLimit = 16 << 10

func drainBody(b io.ReadCloser) {
	if b == nil || b == http.NoBody {
		return
	}
	io.Copy(io.Discard, io.LimitReader(b, drainLimit))
	b.Close()
}

// snapshotBody captures a short prefix for diagnostics, then drains
// and closes the stream.
func snapshotBody(b io.ReadCloser) []byte {
	if b == nil || b == http.NoBody {
		return nil
	}
	buf, _ := io.ReadAll(io.LimitReader(b, http.SnippetSize))
	drainBody(b)
	if len(buf) == 0 {
		return nil
	}
	return buf
}
