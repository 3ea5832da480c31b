package dialer

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/url"

	"github.com/frankli0324/go-fetch/internal/http"
	"github.com/frankli0324/go-fetch/internal/transport"
)

type ProxyConfig struct {
	TLSConfig      *tls.Config // the [*tls.Config] to use with proxy, if nil, *[CoreDialer.TLSConfig] will be used
	ResolveLocally bool
	ResolveConfig  *ResolveConfig // overrides the resolver config for dialer for proxy
}

func (c *ProxyConfig) Clone() *ProxyConfig {
	if c == nil {
		return nil
	}
	return &ProxyConfig{
		TLSConfig:      c.TLSConfig.Clone(),
		ResolveLocally: c.ResolveLocally,
		ResolveConfig:  c.ResolveConfig.Clone(),
	}
}

var h1Transport = transport.HTTP1{}

// tunnelConn adapts the raw connection under CONNECT negotiation to
// the lease interface the wire codec expects. It is never pooled, so
// Release is a no-op and Discard simply closes.
type tunnelConn struct {
	net.Conn
}

func (tunnelConn) Reused() bool { return false }
func (tunnelConn) Release()     {}
func (t tunnelConn) Discard()   { t.Conn.Close() }

// DialContextOverProxy creates a connection over an http(s) proxy.
// This part of logic may be reused when wrapping *[CoreDialer] into
// a new custom [Dialer]
func (d *CoreDialer) DialContextOverProxy(ctx context.Context, remote, proxy *url.URL) (net.Conn, error) {
	if proxy.Scheme != "http" && proxy.Scheme != "https" {
		return nil, errors.New("unsupported proxy scheme:" + proxy.Scheme)
	}
	hp := proxy.Host
	if proxy.Port() == "" {
		hp = net.JoinHostPort(proxy.Hostname(), schemePorts[proxy.Scheme])
	}

	conn, err := zeroDialer.DialContext(ctx, "tcp", hp)
	if err != nil {
		return nil, err
	}

	if proxy.Scheme == "https" {
		tlsCfg := d.proxyTLSConfig()
		c := tls.Client(conn, tlsCfg)
		if err := c.HandshakeContext(ctx); err != nil {
			conn.Close()
			return nil, err
		}
		conn = c
	}

	addr, port := remote.Hostname(), remote.Port()
	if port == "" {
		port = schemePorts[remote.Scheme]
	}

	if d.ProxyConfig != nil && d.ProxyConfig.ResolveLocally {
		dnsCfg := d.ProxyConfig.ResolveConfig.Merge(d.ResolveConfig)
		if res, ok := dnsCfg.staticHost(addr); ok {
			addr = res
		} else {
			ips, err := d.lookup(ctx, dnsCfg, addr)
			if err != nil {
				conn.Close()
				return nil, err
			}
			addr = ips[rand.Intn(len(ips))].String()
		}
	}

	connReq := &http.PreparedRequest{
		Request:       &http.Request{Method: "CONNECT"},
		HeaderHost:    remote.Host,
		U:             &url.URL{Opaque: net.JoinHostPort(addr, port)},
		GetBody:       func() (io.ReadCloser, error) { return http.NoBody, nil },
		ContentLength: -1,
	}
	if auth := proxy.User.String(); auth != "" {
		connReq.Header = http.Header{
			"Proxy-Authorization": {"Basic " + base64.StdEncoding.EncodeToString([]byte(auth))},
		}
	}
	if err := h1Transport.Write(ctx, conn, connReq); err != nil {
		conn.Close()
		return nil, err
	}
	resp := &http.Response{}
	if err := h1Transport.Read(ctx, tunnelConn{conn}, connReq, resp); err != nil {
		conn.Close()
		return nil, err
	}
	if resp.StatusCode != 200 {
		s, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		resp.Body.Close()
		conn.Close()
		return nil, fmt.Errorf("proxy server returned error. status:%d, body:%s", resp.StatusCode, string(s))
	}
	return conn, nil
}

func (d *CoreDialer) proxyTLSConfig() *tls.Config {
	if d.ProxyConfig != nil && d.ProxyConfig.TLSConfig != nil {
		return d.ProxyConfig.TLSConfig
	}
	if d.TLSConfig != nil {
		return d.TLSConfig
	}
	return &tls.Config{}
}

func (c *ResolveConfig) staticHost(host string) (string, bool) {
	if c == nil || c.StaticHosts == nil {
		return "", false
	}
	v, ok := c.StaticHosts[host]
	return v, ok
}
