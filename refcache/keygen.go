package refcache

import (
	"fmt"
	"strings"
)

// splitTag separates the three fields of a triple key. Three characters that
// are unlikely to appear inside a target, a name or a version, so the
// concatenation stays injective for well-formed inputs.
const splitTag = "---"

// KeyGenerator derives cache keys from a reference's identity attributes
// (primary key) or from an explicit (version, target, name) triple
// (secondary key). Implementations must be stateless and safe for
// concurrent use.
//
// A Cache is bound to one generator at creation time and never assumes a
// particular key format; supply a custom generator via WithKeyGenerator to
// change how keys are derived.
type KeyGenerator interface {
	// RefKey derives the primary key from ref's identity attributes. It
	// fails when ref has no resolvable service identity.
	RefKey(ref Ref) (string, error)

	// TripleKey derives the secondary key from an explicit triple. No
	// validation is performed here; Put validates before deriving.
	TripleKey(version, target, name string) string
}

// DefaultKeyGenerator returns the generator used by caches created without
// an explicit one.
//
// Primary keys read "group/service:version" with the group and version
// parts omitted when blank, e.g. "billing/billing.Invoices:1.0.0" or just
// "billing.Invoices". Secondary keys join the triple with a fixed
// separator: "target---name---version---".
func DefaultKeyGenerator() KeyGenerator { return defaultKeyGenerator{} }

type defaultKeyGenerator struct{}

func (defaultKeyGenerator) RefKey(ref Ref) (string, error) {
	name := ref.Service()
	if isBlank(name) {
		if desc := ref.Desc(); desc != nil {
			name = desc.ServiceName
		}
	}
	if isBlank(name) {
		return "", fmt.Errorf("refcache: %w: %v", ErrNoService, ref)
	}

	var b strings.Builder
	if group := ref.Group(); !isBlank(group) {
		b.WriteString(group)
		b.WriteString("/")
	}
	b.WriteString(name)
	if version := ref.Version(); !isBlank(version) {
		b.WriteString(":")
		b.WriteString(version)
	}
	return b.String(), nil
}

func (defaultKeyGenerator) TripleKey(version, target, name string) string {
	var b strings.Builder
	b.WriteString(target)
	b.WriteString(splitTag)
	b.WriteString(name)
	b.WriteString(splitTag)
	b.WriteString(version)
	b.WriteString(splitTag)
	return b.String()
}

// isBlank reports whether s is empty or consists only of whitespace.
func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
