// package compress provides lazily-initialized decompressing wrappers
// over a response body stream. Each reader defers building its decoder
// until the first Read, so that acquiring a response never touches the
// body bytes, and each keeps a sticky error.
package compress

import (
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// NewReader wraps body with a decoder for the given Content-Encoding
// token. ok is false for encodings it does not know, in which case the
// body must be consumed as-is.
func NewReader(encoding string, body io.ReadCloser) (r io.ReadCloser, ok bool) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "gzip":
		return &gzipReader{body: body}, true
	case "deflate":
		return &flateReader{body: body}, true
	case "br":
		return &brotliReader{body: body}, true
	case "zstd":
		return &zstdReader{body: body}, true
	}
	return body, false
}

type gzipReader struct {
	body io.ReadCloser
	zr   *gzip.Reader
	zerr error // sticky error from gzip.NewReader
}

func (gz *gzipReader) Read(p []byte) (n int, err error) {
	if gz.zerr != nil {
		return 0, gz.zerr
	}
	if gz.zr == nil {
		gz.zr, gz.zerr = gzip.NewReader(gz.body)
		if gz.zerr != nil {
			return 0, gz.zerr
		}
	}
	return gz.zr.Read(p)
}

func (gz *gzipReader) Close() error { return gz.body.Close() }

type flateReader struct {
	body io.ReadCloser
	fr   io.ReadCloser
}

func (f *flateReader) Read(p []byte) (n int, err error) {
	if f.fr == nil {
		f.fr = flate.NewReader(f.body)
	}
	return f.fr.Read(p)
}

func (f *flateReader) Close() error {
	if f.fr != nil {
		f.fr.Close()
	}
	return f.body.Close()
}

type brotliReader struct {
	body io.ReadCloser
	br   io.Reader
}

func (b *brotliReader) Read(p []byte) (n int, err error) {
	if b.br == nil {
		b.br = brotli.NewReader(b.body)
	}
	return b.br.Read(p)
}

func (b *brotliReader) Close() error { return b.body.Close() }

type zstdReader struct {
	body io.ReadCloser
	zr   *zstd.Decoder
	zerr error // sticky error from zstd.NewReader
}

func (z *zstdReader) Read(p []byte) (n int, err error) {
	if z.zerr != nil {
		return 0, z.zerr
	}
	if z.zr == nil {
		z.zr, z.zerr = zstd.NewReader(z.body)
		if z.zerr != nil {
			return 0, z.zerr
		}
	}
	return z.zr.Read(p)
}

func (z *zstdReader) Close() error {
	if z.zr != nil {
		z.zr.Close()
	}
	return z.body.Close()
}
