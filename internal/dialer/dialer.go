package dialer

import (
	"context"
	"crypto/tls"
	"sync"

	"github.com/frankli0324/go-fetch/internal/http"
	"github.com/frankli0324/go-fetch/utils/netpool"
)

// CoreDialer is the default [http.Dialer]. It owns the connection pool
// and everything below the byte-stream boundary: TCP establishment,
// TLS, proxies and name resolution.
type CoreDialer struct {
	ResolveConfig *ResolveConfig

	// TLSConfig is used for https targets. Certificate verification
	// policy is whatever the config says; the client's
	// InsecureSkipVerify setting lands here.
	TLSConfig *tls.Config

	ConnPool    *netpool.Group
	GetProxy    func(ctx context.Context, r *http.Request) (string, error)
	ProxyConfig *ProxyConfig

	// pool capacities used when ConnPool is nil and has to be built
	// lazily. Zero means the defaults from [http.DefaultSettings].
	MaxConnsPerHost uint
	MaxIdlePerHost  uint

	poolOnce sync.Once
}

// New builds a CoreDialer from client settings.
func New(s http.Settings) *CoreDialer {
	s = s.WithDefaults()
	return &CoreDialer{
		TLSConfig:       &tls.Config{InsecureSkipVerify: s.InsecureSkipVerify},
		MaxConnsPerHost: s.MaxConnsPerHost,
		MaxIdlePerHost:  s.MaxIdleConnsPerHost,
	}
}

func (d *CoreDialer) pool() *netpool.Group {
	d.poolOnce.Do(func() {
		if d.ConnPool == nil {
			s := http.Settings{
				MaxConnsPerHost:     d.MaxConnsPerHost,
				MaxIdleConnsPerHost: d.MaxIdlePerHost,
			}.WithDefaults()
			d.ConnPool = netpool.NewGroup(s.MaxConnsPerHost, s.MaxIdleConnsPerHost)
		}
	})
	return d.ConnPool
}

func (d *CoreDialer) Clone() *CoreDialer {
	return &CoreDialer{
		ResolveConfig:   d.ResolveConfig.Clone(),
		TLSConfig:       d.TLSConfig.Clone(),
		GetProxy:        d.GetProxy,
		ProxyConfig:     d.ProxyConfig.Clone(),
		MaxConnsPerHost: d.MaxConnsPerHost,
		MaxIdlePerHost:  d.MaxIdlePerHost,
	}
}

func (d *CoreDialer) Unwrap() http.Dialer {
	return nil
}

// Shutdown closes every idle pooled connection. In-flight leases are
// unaffected and close on their own disposition.
func (d *CoreDialer) Shutdown() {
	d.pool().Shutdown()
}
