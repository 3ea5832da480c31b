package dialer

import (
	"context"
	"crypto/tls"
	"net"
	"net/url"

	"github.com/frankli0324/go-fetch/internal/http"
	"github.com/frankli0324/go-fetch/utils/netpool"
)

var schemePorts = map[string]string{
	"http": "80", "https": "443",
}

var zeroDialer net.Dialer
var customDNSDialer = net.Dialer{
	Resolver: &customServerResolver,
}

// Dial leases a connection for the request. The pool bucket is keyed
// by (host:port, secure, proxy), resolved up front so that proxied and
// direct connections to the same origin never mix.
func (d *CoreDialer) Dial(ctx context.Context, r *http.PreparedRequest) (http.Conn, error) {
	host, port := r.U.Hostname(), r.U.Port()
	if port == "" {
		port = schemePorts[r.U.Scheme]
	}
	hp := net.JoinHostPort(host, port)

	proxy := r.Request.Proxy
	if proxy == "" && d.GetProxy != nil {
		p, err := d.GetProxy(ctx, r.Request)
		if err != nil {
			return nil, err
		}
		proxy = p
	}
	var proxyU *url.URL
	if proxy != "" {
		u, err := url.Parse(proxy)
		if err != nil {
			return nil, &http.InvalidURLError{URL: proxy, Err: err}
		}
		proxyU = u
	}

	key := netpool.Key{Address: hp, Secure: r.U.Scheme == "https", Proxy: proxy}
	dial := func(ctx context.Context) (net.Conn, error) {
		var conn net.Conn
		var err error
		if proxyU != nil {
			conn, err = d.DialContextOverProxy(ctx, r.U, proxyU)
		} else {
			conn, err = d.dialDirect(ctx, host, hp)
		}
		if err != nil {
			return nil, err
		}
		if r.U.Scheme == "https" {
			config := d.TLSConfig.Clone()
			if config == nil {
				config = &tls.Config{}
			}
			config.ServerName = host
			c := tls.Client(conn, config)
			if err := c.HandshakeContext(ctx); err != nil {
				conn.Close()
				return nil, err
			}
			conn = c
		}
		return conn, nil
	}
	if http.NewConnHinted(ctx) {
		return d.pool().ConnectNew(ctx, key, dial)
	}
	return d.pool().Connect(ctx, key, dial)
}

// dialDirect opens a plain TCP connection, honoring static host
// overrides and the custom DNS server from the resolve config.
func (d *CoreDialer) dialDirect(ctx context.Context, host, hostport string) (net.Conn, error) {
	network, dialer, dialctx, dst := "tcp", &zeroDialer, ctx, hostport
	cfg := d.ResolveConfig
	if cfg != nil {
		if cfg.Network == "ip4" {
			network = "tcp4"
		} else if cfg.Network == "ip6" {
			network = "tcp6"
		}
		if static, ok := cfg.StaticHosts[host]; ok {
			_, port, err := net.SplitHostPort(hostport)
			if err != nil {
				return nil, err
			}
			dst = net.JoinHostPort(static, port)
		}
		if dns := cfg.CustomDNSServer; dns != "" {
			dialctx = dnsServerCtx{dialctx, dns}
			dialer = &customDNSDialer
		}
	}
	return dialer.DialContext(dialctx, network, dst)
}
