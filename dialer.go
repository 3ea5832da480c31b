package fetch

import (
	"github.com/frankli0324/go-fetch/internal/dialer"
	internalhttp "github.com/frankli0324/go-fetch/internal/http"
)

// Dialers are responsible for creating underlying streams that http requests could
// be written to and responses could be read from, leased out of the connection
// pool with their provenance tagged.
//
// Unlike [net/http.Transport], A Dialer SHOULD hold the connection related configs
// like [ProxyConfig] or *[crypto/tls.Config], while the pooled connection state
// itself lives in the pool it owns.
type Dialer = internalhttp.Dialer

// Conn is one leased connection as seen by the executor.
type Conn = internalhttp.Conn

// CoreDialer is the default implementation of the [Dialer] interface. It would
// be used by a zero value [Client].
type CoreDialer = dialer.CoreDialer

// NewCoreDialer builds the default dialer from client settings.
func NewCoreDialer(s Settings) *CoreDialer { return dialer.New(s) }

type ProxyConfig = dialer.ProxyConfig

// we need a dedicated resolver for two scenarios:
//
//  1. Resolve remote address locally in proxied requests
//  2. to customize the DNS server used for resolving hostname
//
// the standard library didn't provide a intuitive way of
// setting DNS server addresses since it only follows the
// system configuration (e.g. /etc/resolv.conf), leaving us only
// one option of using [net.Resolver.Dial] hook with a Go Resolver.
type ResolveConfig = dialer.ResolveConfig
