package fetch_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fetch "github.com/frankli0324/go-fetch"
)

func TestGetAgainstRealServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/hello", r.URL.Path)
		w.Write([]byte("world"))
	}))
	defer srv.Close()

	c := &fetch.Client{}
	resp, err := c.CtxGet(context.Background(), srv.URL+"/hello")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "world", string(body))
}

func TestPostBodyRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ := io.ReadAll(r.Body)
		assert.Equal(t, "payload", string(got))
		assert.Equal(t, "text/plain", r.Header.Get("Content-Type"))
		w.WriteHeader(204)
	}))
	defer srv.Close()

	c := &fetch.Client{}
	body, resp, err := c.CtxFetch(context.Background(), &fetch.Request{
		Method: "POST",
		URL:    srv.URL + "/submit",
		Header: fetch.Header{"Content-Type": []string{"text/plain"}},
		Body:   "payload",
	})
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)
	assert.Empty(t, body)
}

func TestFollowsRelativeRedirect(t *testing.T) {
	var hits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Location", "/next")
		w.WriteHeader(302)
	})
	mux.HandleFunc("/next", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("ok"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := &fetch.Client{}
	body, resp, err := c.CtxFetch(context.Background(), &fetch.Request{
		Method: "GET", URL: srv.URL + "/start", MaxRedirects: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, int32(2), hits.Load())
}

func TestTransparentGzip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		zw := gzip.NewWriter(w)
		io.WriteString(zw, "compressed over the wire")
		zw.Close()
	}))
	defer srv.Close()

	c := &fetch.Client{}
	body, resp, err := c.CtxFetch(context.Background(), &fetch.Request{
		Method:     "GET",
		URL:        srv.URL + "/",
		Decompress: fetch.DecompressByEncoding,
	})
	require.NoError(t, err)
	assert.Equal(t, "compressed over the wire", string(body))
	assert.Empty(t, resp.Header.Get("Content-Encoding"))
}

func TestConnectionReuseAcrossRequests(t *testing.T) {
	var mu sync.Mutex
	var remotes []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		remotes = append(remotes, r.RemoteAddr)
		mu.Unlock()
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := &fetch.Client{}
	for i := 0; i < 3; i++ {
		_, _, err := c.CtxFetch(context.Background(), &fetch.Request{Method: "GET", URL: srv.URL + "/"})
		require.NoError(t, err)
	}
	require.Len(t, remotes, 3)
	assert.Equal(t, remotes[0], remotes[1], "sequential requests share one connection")
	assert.Equal(t, remotes[1], remotes[2])
}

func TestStatusRejectionCarriesSnippet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", 502)
	}))
	defer srv.Close()

	c := &fetch.Client{}
	_, err := c.CtxGet(context.Background(), srv.URL+"/")
	var rejected *fetch.StatusRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, 502, rejected.Status)
	assert.Equal(t, "upstream exploded\n", string(rejected.Snippet))
}
