package http

// Logger is the minimal logging surface the client needs. The top
// level package provides a logrus-backed default; anything with the
// same shape plugs in.
type Logger interface {
	Errorf(format string, v ...interface{})
	Warnf(format string, v ...interface{})
	Debugf(format string, v ...interface{})
}

// Settings is the client's configuration record. It is constructed
// once, passed by value and never mutated afterwards; there is no
// hidden global state. The zero value of each field means "use the
// documented default".
type Settings struct {
	// MaxRedirects is the hop budget string-URL entry points put on
	// the requests they build. Default 10.
	MaxRedirects int

	// MaxIdleConnsPerHost caps how many idle connections the pool
	// retains per (host, port, secure, proxy) key. Default 8.
	MaxIdleConnsPerHost uint

	// MaxConnsPerHost caps total in-flight plus idle connections per
	// key; acquisition blocks when it is reached. Default 64.
	MaxConnsPerHost uint

	// InsecureSkipVerify disables certificate verification on the TLS
	// handshake. Default false, i.e. strict verification.
	InsecureSkipVerify bool

	// Logger receives debug output for redirect hops and stale-lease
	// retries. Default is a logrus-backed logger.
	Logger Logger
}

// DefaultSettings returns the documented defaults spelled out.
func DefaultSettings() Settings {
	return Settings{
		MaxRedirects:        10,
		MaxIdleConnsPerHost: 8,
		MaxConnsPerHost:     64,
	}
}

// WithDefaults fills every zero field with its documented default.
// The Logger field is left alone, the client falls back on its own.
func (s Settings) WithDefaults() Settings {
	d := DefaultSettings()
	if s.MaxRedirects == 0 {
		s.MaxRedirects = d.MaxRedirects
	}
	if s.MaxIdleConnsPerHost == 0 {
		s.MaxIdleConnsPerHost = d.MaxIdleConnsPerHost
	}
	if s.MaxConnsPerHost == 0 {
		s.MaxConnsPerHost = d.MaxConnsPerHost
	}
	return s
}
