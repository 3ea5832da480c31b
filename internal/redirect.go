package internal

import (
	"strings"

	"github.com/frankli0324/go-fetch/internal/http"
)

// redirectTarget is the redirect policy: a pure decision over the
// response and the current hop's descriptor. ok is false when the
// response is final.
//
// A Location starting with "/" is path-absolute and inherits the
// current target's scheme, host and port; anything else is parsed as a
// standalone URL when the next hop is prepared.
//
// 302 and 303 rewrite the method to GET whatever it was, matching what
// browsers actually do rather than the letter of RFC 9110; every other
// 3xx carries the method over unchanged.
func redirectTarget(resp *http.Response, cur *http.PreparedRequest) (method, location string, ok bool) {
	if resp.StatusCode < 300 || resp.StatusCode >= 400 {
		return "", "", false
	}
	location = resp.Header.Get("Location")
	if location == "" {
		return "", "", false
	}
	if strings.HasPrefix(location, "/") {
		location = cur.U.Scheme + "://" + cur.U.Host + location
	}
	method = cur.Method
	if method == "" {
		method = "GET"
	}
	if resp.StatusCode == 302 || resp.StatusCode == 303 {
		method = "GET"
	}
	return method, location, true
}
