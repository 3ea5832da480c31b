package transport

import (
	"context"
	"io"

	"github.com/frankli0324/go-fetch/internal/http"
)

type Transport interface {
	Write(ctx context.Context, w io.Writer, req *http.PreparedRequest) error
	Read(ctx context.Context, conn http.Conn, req *http.PreparedRequest, resp *http.Response) error
}
