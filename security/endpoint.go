package security

import (
	"net"
	"strings"
)

// endpointHost extracts the host portion of a gRPC dial target.
//
// It understands the common target forms: a bare "host:port", a scheme-
// qualified "dns:///host:port" or "passthrough:///host:port", and an
// authority-carrying "scheme://authority/endpoint" (the endpoint is what
// gets dialed). Ports and IPv6 brackets are stripped. Unix-socket targets
// have no host and report false.
func endpointHost(target string) (host string, ok bool) {
	s := target

	if i := strings.Index(s, "://"); i >= 0 {
		scheme := s[:i]
		if scheme == "unix" || scheme == "unix-abstract" {
			return "", false
		}
		s = s[i+3:]
		// scheme://authority/endpoint: everything after the last slash of
		// the authority section is the endpoint.
		if j := strings.Index(s, "/"); j >= 0 {
			s = s[j+1:]
		}
	} else if strings.HasPrefix(s, "unix:") {
		return "", false
	}

	if s == "" {
		return "", false
	}

	if h, _, err := net.SplitHostPort(s); err == nil {
		s = h
	}
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")

	if s == "" {
		return "", false
	}
	return s, true
}

// matchesHost reports whether host matches any of the patterns. A pattern
// with a leading dot matches any subdomain; other patterns match exactly.
// Matching is case-insensitive.
func matchesHost(host string, patterns []string) bool {
	h := strings.ToLower(host)
	for _, p := range patterns {
		p = strings.ToLower(p)
		if strings.HasPrefix(p, ".") {
			if strings.HasSuffix(h, p) {
				return true
			}
			continue
		}
		if h == p {
			return true
		}
	}
	return false
}
