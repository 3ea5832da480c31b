package http

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"

	"golang.org/x/net/http/httpguts"
)

type PreparedRequest struct {
	*Request

	U          *url.URL
	GetBody    func() (io.ReadCloser, error)
	Header     http.Header
	HeaderHost string

	ContentLength int64
}

// Prepare resolves the request into the form the transport consumes:
// parsed target, validated headers, a replayable body factory and the
// computed content length (-1 when unknown).
//
// Host and Content-Length are computed from the target and the body;
// setting either directly is a caller error.
func (r *Request) Prepare() (*PreparedRequest, error) {
	u, err := url.Parse(r.URL)
	if err != nil {
		return nil, &InvalidURLError{URL: r.URL, Err: err}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, &InvalidURLError{URL: r.URL, Err: errUnsupportedScheme}
	}
	host := u.Host
	if host == "" || !httpguts.ValidHostHeader(host) {
		return nil, &InvalidURLError{URL: r.URL, Err: errInvalidHost}
	}

	headers := r.Header.Clone()
	for k, vv := range headers {
		switch strings.ToLower(k) {
		case "host", "content-length":
			// computed fields, never caller-set
			return nil, &HeaderError{Name: k, Reason: "computed by the transport"}
		}
		if !httpguts.ValidHeaderFieldName(k) {
			return nil, &HeaderError{Name: k, Reason: "invalid field name"}
		}
		for _, v := range vv {
			if !httpguts.ValidHeaderFieldValue(v) {
				return nil, &HeaderError{Name: k, Reason: "invalid field value"}
			}
		}
	}

	pr := &PreparedRequest{
		Request: r, U: u,
		Header: headers, HeaderHost: host,
		ContentLength: -1,
	}
	if err := pr.updateBody(); err != nil {
		return nil, err
	}
	return pr, nil
}

// Redirected derives the prepared form of the next hop. Headers, body
// and policy knobs carry over from r; only method and target change.
func (r *PreparedRequest) Redirected(method, location string) (*PreparedRequest, error) {
	next := *r.Request
	next.Method = method
	next.URL = location
	return next.Prepare()
}

// should only be called once at [Prepare]
func (r *PreparedRequest) updateBody() (err error) {
	if r.Request.Body == nil {
		r.GetBody = func() (io.ReadCloser, error) {
			return http.NoBody, nil
		}
		return nil
	}
	switch b := r.Request.Body.(type) {
	case string:
		r.ContentLength = int64(len(b))
		r.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(b)), nil
		}
	case []byte:
		r.ContentLength = int64(len(b))
		r.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(b)), nil
		}
	case *bytes.Buffer: // below is taken from http.NewRequest
		r.ContentLength = int64(b.Len())
		buf := b.Bytes()
		r.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(buf)), nil
		}
	case *bytes.Reader:
		r.ContentLength = int64(b.Len())
		snapshot := *b
		r.GetBody = func() (io.ReadCloser, error) {
			r := snapshot
			return io.NopCloser(&r), nil
		}
	case *strings.Reader:
		r.ContentLength = int64(b.Len())
		snapshot := *b
		r.GetBody = func() (io.ReadCloser, error) {
			r := snapshot
			return io.NopCloser(&r), nil
		}
	case io.Reader:
		if sizer, ok := b.(interface{ Size() int64 }); ok {
			r.ContentLength = sizer.Size()
		}
		cb, ok := b.(io.ReadCloser)
		if !ok {
			cb = io.NopCloser(b)
		}
		once := uint32(0)
		r.GetBody = func() (io.ReadCloser, error) {
			if atomic.CompareAndSwapUint32(&once, 0, 1) {
				return cb, nil
			}
			return nil, http.ErrBodyReadAfterClose
		}
	default:
		return &BodyTypeError{Body: r.Request.Body}
	}
	return nil
}
