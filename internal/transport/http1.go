package transport

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/frankli0324/go-fetch/internal/http"
	"github.com/frankli0324/go-fetch/internal/transport/chunked"
	"github.com/frankli0324/go-fetch/internal/transport/compress"
)

type HTTP1 struct{}

func (t HTTP1) Write(ctx context.Context, w io.Writer, r *http.PreparedRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := r.GetBody() // can write body
	if err != nil {
		return err
	}
	if body != nil {
		defer body.Close() // request body is ALWAYS closed
	}

	hasBody := body != nil && body != http.NoBody
	framed := hasBody && r.ContentLength == -1 && !r.RawBody
	if err := t.writeHeader(w, r, framed); err != nil {
		return err
	}
	if !hasBody {
		return nil
	}
	if framed {
		cw := chunked.NewChunkedWriter(w)
		if _, err := io.Copy(cw, body); err != nil {
			return err
		}
		return cw.Close()
	}
	_, err = io.Copy(w, body)
	return err
}

// writeHeader writes the status and header part of an http 1.1 request
// e.g.:
//
//	GET / HTTP/1.1\r\n
//	Host: www.google.com\r\n
//	X-Xx-Yy: cccccc\r\n
//	\r\n
//
// Host, Content-Length and Transfer-Encoding are computed here, the
// caller-supplied headers never contain them.
func (t HTTP1) writeHeader(w io.Writer, r *http.PreparedRequest, framed bool) error {
	header := bufio.NewWriter(w) // default bufsize is 4096

	method := r.Method
	if method == "" {
		method = "GET"
	}
	if _, err := header.WriteString(method); err != nil {
		return err
	}
	header.WriteByte(' ')
	header.WriteString(r.U.RequestURI())
	header.WriteString(" HTTP/1.1\r\n")

	header.WriteString("Host: ")
	header.WriteString(r.HeaderHost)
	header.WriteString("\r\n")
	if framed {
		header.WriteString("Transfer-Encoding: chunked\r\n")
	} else if r.ContentLength != -1 {
		header.WriteString("Content-Length: ")
		header.WriteString(strconv.FormatInt(r.ContentLength, 10))
		header.WriteString("\r\n")
	}
	for k, v := range r.Header {
		for _, v := range v {
			header.WriteString(k)
			header.WriteString(": ")
			header.WriteString(v)
			if _, err := header.WriteString("\r\n"); err != nil {
				return err
			}
		}
	}
	if _, err := header.WriteString("\r\n"); err != nil {
		return err
	}
	return header.Flush()
}

func (t HTTP1) Read(ctx context.Context, conn http.Conn, req *http.PreparedRequest, resp *http.Response) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	tp := textproto.NewReader(bufio.NewReader(conn))

	line, err := tp.ReadLine()
	if err != nil {
		return readErr(err)
	}
	proto, status, ok := strings.Cut(line, " ")
	if !ok {
		return &http.ProtocolError{Reason: "malformed status line"}
	}
	resp.Proto = proto
	resp.Status = strings.TrimLeft(status, " ")

	statusCode, _, _ := strings.Cut(resp.Status, " ")
	if len(statusCode) != 3 {
		return &http.ProtocolError{Reason: "malformed status code " + strconv.Quote(statusCode)}
	}
	resp.StatusCode, err = strconv.Atoi(statusCode)
	if err != nil || resp.StatusCode < 0 {
		return &http.ProtocolError{Reason: "malformed status code"}
	}

	// Parse the response headers.
	mimeHeader, err := tp.ReadMIMEHeader()
	if err != nil {
		return readErr(err)
	}
	if hp, ok := mimeHeader["Pragma"]; ok && len(hp) > 0 && hp[0] == "no-cache" {
		if _, presentcc := mimeHeader["Cache-Control"]; !presentcc {
			mimeHeader["Cache-Control"] = []string{"no-cache"}
		}
	}
	resp.Header = http.Header(mimeHeader)

	return t.readTransfer(tp.R, conn, req, resp)
}

// readErr classifies a status-line/header read failure: byte-level
// failures stay as they are (the client may retry them on a reused
// lease), textproto's own complaints become protocol errors.
func readErr(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return io.ErrUnexpectedEOF
	}
	var pe textproto.ProtocolError
	if errors.As(err, &pe) {
		return &http.ProtocolError{Reason: pe.Error()}
	}
	return err
}

func (t HTTP1) readTransfer(r *bufio.Reader, conn http.Conn, req *http.PreparedRequest, resp *http.Response) error {
	reusable := keepAlive(resp)

	if noBody(req, resp) {
		resp.ContentLength = headerContentLength(resp.Header)
		dispose(conn, reusable)
		resp.Body = http.NoBody
		return nil
	}

	contentLens := resp.Header["Content-Length"]

	// Hardening against HTTP request smuggling, taken from standard library
	if len(contentLens) > 1 {
		// Per RFC 7230 Section 3.3.2
		first := textproto.TrimString(contentLens[0])
		for _, ct := range contentLens[1:] {
			if first != textproto.TrimString(ct) {
				return &http.ProtocolError{Reason: "multiple conflicting Content-Length headers"}
			}
		}

		// deduplicate Content-Length
		resp.Header.Del("Content-Length")
		resp.Header.Add("Content-Length", first)

		contentLens = resp.Header["Content-Length"]
	}

	cl := int64(-1)
	if len(contentLens) > 0 {
		// Logic based on Content-Length
		n, err := strconv.ParseUint(textproto.TrimString(contentLens[0]), 10, 63)
		if err == nil {
			cl = int64(n)
		}
	}

	var framed io.Reader
	switch {
	case resp.Header.Get("Transfer-Encoding") == "chunked":
		framed = chunked.NewChunkedReader(r)
		cl = -1
	case cl == 0:
		dispose(conn, reusable)
		resp.ContentLength = 0
		resp.Body = http.NoBody
		return nil
	case cl > 0:
		framed = io.LimitReader(r, cl)
	default:
		// neither length nor framing: the body runs to connection
		// close, which rules out reuse
		framed = r
		reusable = false
	}

	resp.Header.Del("Content-Length")
	resp.ContentLength = cl

	var body io.ReadCloser = &leasedBody{r: framed, conn: conn, reusable: reusable}
	if req.Decompress != nil && req.Decompress(resp.Header) {
		if dec, ok := compress.NewReader(resp.Header.Get("Content-Encoding"), body); ok {
			body = dec
			resp.Header.Del("Content-Encoding")
			resp.ContentLength = -1
		}
	}
	resp.Body = body
	return nil
}

// noBody reports response classes that never carry a body regardless
// of their headers.
func noBody(req *http.PreparedRequest, resp *http.Response) bool {
	if req.Method == "HEAD" {
		return true
	}
	if req.Method == "CONNECT" && resp.StatusCode/100 == 2 {
		return true
	}
	switch {
	case resp.StatusCode < 200: // 1xx
		return true
	case resp.StatusCode == 204, resp.StatusCode == 304:
		return true
	}
	return false
}

func keepAlive(resp *http.Response) bool {
	c := strings.ToLower(resp.Header.Get("Connection"))
	if strings.Contains(c, "close") {
		return false
	}
	if resp.Proto == "HTTP/1.0" {
		return strings.Contains(c, "keep-alive")
	}
	return true
}

func headerContentLength(h http.Header) int64 {
	if v := h.Get("Content-Length"); v != "" {
		if n, err := strconv.ParseUint(textproto.TrimString(v), 10, 63); err == nil {
			return int64(n)
		}
	}
	return -1
}
