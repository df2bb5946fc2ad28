package security

import (
	"fmt"
	"net/netip"
)

// Mode controls how the target lists are interpreted.
type Mode int

const (
	// AllowList only permits targets that match at least one entry.
	AllowList Mode = iota
	// DenyList blocks targets that match any entry and allows all others.
	DenyList
)

// Config holds the configuration for a TargetGuard.
type Config struct {
	Mode Mode

	// CIDRs match targets whose endpoint is a literal IP address.
	CIDRs []string

	// Hosts match targets by hostname. An entry "api.corp.example" matches
	// that host exactly; an entry ".corp.example" matches any subdomain.
	Hosts []string
}

// TargetGuard evaluates whether an egress target may be dialed, based on the
// configured Mode and the CIDR and hostname lists. It is consulted before a
// reference is handed out, so a denied target never reaches the dialer.
type TargetGuard struct {
	mode  Mode
	cidrs []netip.Prefix
	hosts []string
}

// NewTargetGuard creates a TargetGuard from the given Config. It parses all
// CIDR strings up-front and returns an error if any entry is invalid.
func NewTargetGuard(cfg Config) (*TargetGuard, error) {
	cidrs, err := parsePrefixes(cfg.CIDRs)
	if err != nil {
		return nil, fmt.Errorf("targetguard: invalid CIDR: %w", err)
	}

	return &TargetGuard{
		mode:  cfg.Mode,
		cidrs: cidrs,
		hosts: cfg.Hosts,
	}, nil
}

// Evaluate determines whether the given dial target is allowed.
//
// The target's endpoint host is extracted first (scheme and port stripped).
// IP endpoints are matched against the CIDR list, hostname endpoints against
// the host list. In AllowList mode the endpoint must match at least one
// entry to be allowed; in DenyList mode it must match none. If the endpoint
// cannot be determined the target is denied.
func (g *TargetGuard) Evaluate(target string) (allowed bool) {
	host, ok := endpointHost(target)
	if !ok {
		return false
	}

	var matched bool
	if addr, err := netip.ParseAddr(host); err == nil {
		matched = matchesAny(addr, g.cidrs)
	} else {
		matched = matchesHost(host, g.hosts)
	}

	switch g.mode {
	case AllowList:
		return matched
	case DenyList:
		return !matched
	default:
		return false
	}
}

// matchesAny reports whether addr is contained in any of the prefixes.
func matchesAny(addr netip.Addr, prefixes []netip.Prefix) bool {
	for _, p := range prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// parsePrefixes parses a slice of CIDR strings into netip.Prefix values.
// A plain IP address (without a prefix length) is treated as a single-host
// prefix (/32 for IPv4, /128 for IPv6).
func parsePrefixes(raw []string) ([]netip.Prefix, error) {
	out := make([]netip.Prefix, 0, len(raw))
	for _, s := range raw {
		p, err := netip.ParsePrefix(s)
		if err != nil {
			// Try as a bare address.
			addr, addrErr := netip.ParseAddr(s)
			if addrErr != nil {
				return nil, fmt.Errorf("%q: %w", s, err)
			}
			p = netip.PrefixFrom(addr, addr.BitLen())
		}
		out = append(out, p)
	}
	return out, nil
}
