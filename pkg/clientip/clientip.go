package clientip

import (
	"net"
	"net/http"
	"strings"
)

// RealClientIP returns the client IP for rate limiting and logging.
// Only r.RemoteAddr is consulted; proxy headers are ignored because traffic
// is expected to reach the app directly.
func RealClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return strings.TrimSpace(host)
}
