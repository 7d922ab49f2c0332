package domain

import (
	"net"
	"net/url"
	"strings"
)

// NormalizeReferer reduces a raw Referer or Origin header value to a
// lowercase hostname: no scheme, no port, no leading "www." label. The
// second return is false when no usable host can be extracted. Malformed
// input never panics; it yields ("", false).
//
// IP literals pass through unchanged (minus port and brackets). Other
// subdomain labels are preserved. The function is idempotent: feeding its
// own output back produces the same host.
func NormalizeReferer(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	host := raw
	switch {
	case strings.Contains(raw, "://"):
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			return "", false
		}
		host = u.Host
	case strings.HasPrefix(raw, "//"):
		u, err := url.Parse("https:" + raw)
		if err != nil || u.Host == "" {
			return "", false
		}
		host = u.Host
	default:
		// Bare host, possibly followed by a path or query.
		if i := strings.IndexAny(host, "/?#"); i >= 0 {
			host = host[:i]
		}
	}

	host = strings.ToLower(host)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.Trim(host, "[]")
	for strings.HasPrefix(host, "www.") {
		host = host[len("www."):]
	}
	if host == "" {
		return "", false
	}
	return host, true
}
