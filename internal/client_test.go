package internal_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "github.com/frankli0324/go-fetch/internal/http"
)

type tCase struct {
	data string
	req  *model.Request
}

var reqShouldBe = map[string]tCase{
	"BasicRequest": {
		req: &model.Request{
			Method: "GET",
			URL:    "http://www.example.com",
		},
		data: "GET / HTTP/1.1\r\nHost: www.example.com\r\n\r\n",
	},
	"QueryNonStandard": {
		req: &model.Request{
			Method: "GET",
			URL:    "http://www.example.com/test?1=33=1",
		},
		data: "GET /test?1=33=1 HTTP/1.1\r\nHost: www.example.com\r\n\r\n",
	},
	"HeaderNotCanonicalized": {
		req: &model.Request{
			Method: "GET",
			URL:    "http://www.example.com/",
			Header: http.Header{"x-123-vv": {"1"}},
		},
		data: "GET / HTTP/1.1\r\nHost: www.example.com\r\nx-123-vv: 1\r\n\r\n",
	},
	"URIFragmentNotIncluded": {
		req: &model.Request{
			Method: "GET",
			URL:    "http://www.example.com/?test=1#frag",
		},
		data: "GET /?test=1 HTTP/1.1\r\nHost: www.example.com\r\n\r\n",
	},
	"BodyContentLength": {
		req: &model.Request{
			Method: "POST",
			URL:    "http://www.example.com/submit",
			Body:   "a=b",
		},
		data: "POST /submit HTTP/1.1\r\nHost: www.example.com\r\nContent-Length: 3\r\n\r\na=b",
	},
}

func TestRequestSerialize(t *testing.T) {
	for name, cas := range reqShouldBe {
		tCase := cas
		t.Run(name, func(t *testing.T) {
			conn := newScriptConn("HTTP/1.1 200 OK\r\nContent-Length: 0\r\n\r\n")
			c, d := newScriptClient(conn)
			resp, err := c.CtxDo(context.Background(), tCase.req)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, 1, d.dials)
			assert.Equal(t, tCase.data, conn.req.String())
		})
	}
}

// serializing then parsing on a loopback recovers the request, modulo
// the computed Host and Content-Length
func TestSerializeParseRoundTrip(t *testing.T) {
	conn := newScriptConn("HTTP/1.1 200 OK\r\nContent-Length: 0\r\n\r\n")
	c, _ := newScriptClient(conn)
	_, err := c.CtxDo(context.Background(), &model.Request{
		Method: "PUT",
		URL:    "http://www.example.com/things/1?v=2",
		Header: http.Header{"X-Trace": {"abc"}},
		Body:   []byte(`{"ok":true}`),
	})
	require.NoError(t, err)

	parsed, err := http.ReadRequest(newBufReader(conn.req.String()))
	require.NoError(t, err)
	assert.Equal(t, "PUT", parsed.Method)
	assert.Equal(t, "/things/1?v=2", parsed.URL.RequestURI())
	assert.Equal(t, "www.example.com", parsed.Host)
	assert.Equal(t, "abc", parsed.Header.Get("X-Trace"))
	assert.Equal(t, int64(11), parsed.ContentLength)
}
