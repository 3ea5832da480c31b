package http

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareRejectsTarget(t *testing.T) {
	for name, u := range map[string]string{
		"NoHost":        "http://",
		"BadScheme":     "ftp://example.com/",
		"NotAbsolute":   "/just/a/path",
		"SpaceInHost":   "http://exa mple.com/",
		"ControlInHost": "http://example.com\x00/",
	} {
		u := u
		t.Run(name, func(t *testing.T) {
			_, err := (&Request{Method: "GET", URL: u}).Prepare()
			var invalid *InvalidURLError
			require.ErrorAs(t, err, &invalid, "url %q", u)
			assert.Equal(t, u, invalid.URL)
		})
	}
}

func TestPrepareRejectsComputedHeaders(t *testing.T) {
	for _, name := range []string{"Host", "host", "Content-Length", "content-length"} {
		name := name
		t.Run(name, func(t *testing.T) {
			_, err := (&Request{
				Method: "GET", URL: "http://example.com/",
				Header: Header{name: []string{"x"}},
			}).Prepare()
			var he *HeaderError
			require.ErrorAs(t, err, &he)
			assert.Equal(t, name, he.Name)
		})
	}
}

func TestPrepareRejectsInvalidHeaders(t *testing.T) {
	_, err := (&Request{
		Method: "GET", URL: "http://example.com/",
		Header: Header{"Bad Name": []string{"x"}},
	}).Prepare()
	var he *HeaderError
	require.ErrorAs(t, err, &he)

	_, err = (&Request{
		Method: "GET", URL: "http://example.com/",
		Header: Header{"X-Ok": []string{"bad\x00value"}},
	}).Prepare()
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "X-Ok", he.Name)
}

func TestPrepareBodyContentLength(t *testing.T) {
	cases := map[string]struct {
		body interface{}
		want int64
	}{
		"Nil":           {nil, -1},
		"String":        {"hello", 5},
		"Bytes":         {[]byte("hello!"), 6},
		"BytesBuffer":   {bytes.NewBufferString("buf"), 3},
		"BytesReader":   {bytes.NewReader([]byte("rd")), 2},
		"StringsReader": {strings.NewReader("sized"), 5},
		"PlainReader":   {struct{ io.Reader }{strings.NewReader("opaque")}, -1},
	}
	for name, cas := range cases {
		cas := cas
		t.Run(name, func(t *testing.T) {
			pr, err := (&Request{Method: "POST", URL: "http://example.com/", Body: cas.body}).Prepare()
			require.NoError(t, err)
			assert.Equal(t, cas.want, pr.ContentLength)
		})
	}

	_, err := (&Request{Method: "POST", URL: "http://example.com/", Body: 42}).Prepare()
	var bte *BodyTypeError
	require.ErrorAs(t, err, &bte)
	assert.Equal(t, 42, bte.Body)
}

func TestPrepareBodyReplayable(t *testing.T) {
	pr, err := (&Request{Method: "POST", URL: "http://example.com/", Body: "again"}).Prepare()
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		b, err := pr.GetBody()
		require.NoError(t, err)
		got, _ := io.ReadAll(b)
		assert.Equal(t, "again", string(got))
	}
}

func TestPrepareStreamBodyReadsOnce(t *testing.T) {
	pr, err := (&Request{
		Method: "POST", URL: "http://example.com/",
		Body: struct{ io.Reader }{strings.NewReader("stream")},
	}).Prepare()
	require.NoError(t, err)

	b, err := pr.GetBody()
	require.NoError(t, err)
	got, _ := io.ReadAll(b)
	assert.Equal(t, "stream", string(got))

	_, err = pr.GetBody()
	assert.ErrorIs(t, err, http.ErrBodyReadAfterClose)
}

func TestRedirectedInheritsAndIsolates(t *testing.T) {
	pr, err := (&Request{
		Method: "POST", URL: "https://example.com:8443/bar?q=1",
		Header: Header{"X-Token": []string{"abc"}},
		Body:   "payload",
	}).Prepare()
	require.NoError(t, err)

	next, err := pr.Redirected("GET", "https://example.com:8443/foo")
	require.NoError(t, err)
	assert.Equal(t, "GET", next.Method)
	assert.Equal(t, "/foo", next.U.Path)
	assert.Equal(t, "example.com:8443", next.HeaderHost)
	assert.Equal(t, "abc", next.Header.Get("X-Token"))

	// the original hop is untouched
	assert.Equal(t, "POST", pr.Method)
	assert.Equal(t, "/bar", pr.U.Path)

	// mutating the next hop's headers must not leak back
	next.Header.Set("X-Token", "def")
	assert.Equal(t, "abc", pr.Header.Get("X-Token"))
}
