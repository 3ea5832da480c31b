package internal_test

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/frankli0324/go-fetch/internal"
	"github.com/frankli0324/go-fetch/internal/http"
)

func newBufReader(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

// scriptConn is a lease with a canned response. It records the bytes
// the client wrote and the disposition the client settled on.
type scriptConn struct {
	reused   bool
	writeErr error

	req  bytes.Buffer
	resp *strings.Reader

	released, discarded bool
}

func newScriptConn(response string) *scriptConn {
	return &scriptConn{resp: strings.NewReader(response)}
}

func (c *scriptConn) Read(p []byte) (int, error) { return c.resp.Read(p) }

func (c *scriptConn) Write(p []byte) (int, error) {
	if c.writeErr != nil {
		return 0, c.writeErr
	}
	return c.req.Write(p)
}

func (c *scriptConn) Reused() bool { return c.reused }

func (c *scriptConn) Release() {
	if c.released || c.discarded {
		panic("scriptConn: disposed twice")
	}
	c.released = true
}

func (c *scriptConn) Discard() {
	if c.released || c.discarded {
		panic("scriptConn: disposed twice")
	}
	c.discarded = true
}

// scriptDialer leases its connections in order, one per Dial.
type scriptDialer struct {
	conns []*scriptConn
	dials int
}

func (d *scriptDialer) Dial(ctx context.Context, r *http.PreparedRequest) (http.Conn, error) {
	if d.dials >= len(d.conns) {
		return nil, errors.New("no scripted connection left")
	}
	c := d.conns[d.dials]
	d.dials++
	return c, nil
}

func (d *scriptDialer) Unwrap() http.Dialer { return nil }

func newScriptClient(conns ...*scriptConn) (*internal.Client, *scriptDialer) {
	d := &scriptDialer{conns: conns}
	c := &internal.Client{}
	c.UseDialer(func(http.Dialer) http.Dialer { return d })
	return c, d
}
