// Package refcache deduplicates expensive client references process-wide.
//
// Building a reference to a remote service is costly: the target has to be
// resolved, a connection established and an interceptor chain assembled.
// refcache maps a reference's identity (group / service / version) to the
// one live instance for that identity, so repeated requests for "the
// reference to X" share a single connection instead of re-paying setup.
//
// Caches are obtained by name from a registry ([GetCache], [Default]) and
// hold entries until they are destroyed explicitly; there is no eviction
// and no expiry. For a bounded, TTL-based cache of call results see the
// respcache package; the two are intentionally different animals.
package refcache

import (
	"errors"
	"sync"

	"google.golang.org/grpc"
)

// Ref is the slice of a remote reference the cache interacts with. The
// cache reads identity attributes to derive keys, realizes the handle via
// Conn, and tears entries down via Destroy; everything else about the
// reference is none of its business. reference.Reference is the canonical
// implementation.
type Ref interface {
	// Group returns the optional service group qualifier ("" when unset).
	Group() string

	// Service returns the service name the reference points at. It may be
	// blank when Desc supplies the identity instead.
	Service() string

	// Version returns the optional service version qualifier ("" when unset).
	Version() string

	// Desc returns the service descriptor, or nil. It identifies the
	// service when Service returns a blank name.
	Desc() *grpc.ServiceDesc

	// Conn realizes the live handle. Implementations construct lazily and
	// at most once; repeated calls return the same handle.
	Conn() (grpc.ClientConnInterface, error)

	// Destroy releases the realized handle. It must be idempotent: calling
	// it again after a successful teardown is a no-op, never a double free.
	Destroy() error
}

// Cache maps reference identities to live reference instances. It keeps two
// independent key spaces over the same instances: the primary one derived
// from a reference's own identity attributes, and a secondary one derived
// from an explicit (version, target, name) triple registered via Put.
//
// All methods are safe for concurrent use. The maps are fine-grained
// concurrent structures; operations on unrelated keys never serialize
// against each other.
//
// Note that the primary key is the service identity, not the address: two
// references to the same group/service/version but different targets
// collide on the primary key, and the first one wins. Use the triple key
// space when entries must be distinguished by target.
type Cache struct {
	name string
	gen  KeyGenerator

	refs    sync.Map // primary key (string) -> Ref
	triples sync.Map // triple key (string) -> Ref
}

// newCache is only reachable through a Registry, which guarantees one Cache
// per name.
func newCache(name string, gen KeyGenerator) *Cache {
	return &Cache{name: name, gen: gen}
}

// Name returns the cache's registry name. It is fixed at creation and used
// for diagnostics and metric labels only.
func (c *Cache) Name() string { return c.name }

// String implements fmt.Stringer.
func (c *Cache) String() string {
	return "refcache.Cache(name: " + c.name + ")"
}

// Get returns the live handle for ref's identity, inserting ref as the
// cached instance if the identity is not cached yet.
//
// Under concurrent calls for the same identity exactly one reference is
// stored; every caller, including the ones whose argument lost the race,
// gets the stored winner's handle. A losing argument is discarded without
// ever being realized or destroyed; disposing of it is the caller's
// concern, not the cache's.
func (c *Cache) Get(ref Ref) (grpc.ClientConnInterface, error) {
	key, err := c.gen.RefKey(ref)
	if err != nil {
		return nil, err
	}

	// Hit path: an existing entry is never replaced, even when ref is a
	// different instance that happens to share the key.
	if cur, ok := c.refs.Load(key); ok {
		getsTotal.WithLabelValues(c.name, resultHit).Inc()
		return cur.(Ref).Conn()
	}

	actual, loaded := c.refs.LoadOrStore(key, ref)
	if loaded {
		getsTotal.WithLabelValues(c.name, resultHit).Inc()
	} else {
		getsTotal.WithLabelValues(c.name, resultMiss).Inc()
	}
	return actual.(Ref).Conn()
}

// Put registers ref under the secondary key derived from the triple and,
// if absent, under its primary key as well.
//
// The secondary entry is an unconditional overwrite; Put is an explicit,
// caller-directed registration, so the last writer wins there. The primary
// entry keeps Get's first-writer-wins rule. Validation and key derivation
// happen before either map is touched; on error nothing is modified.
func (c *Cache) Put(version, target, name string, ref Ref) error {
	if isBlank(version) {
		return ErrBlankVersion
	}
	if isBlank(target) {
		return ErrBlankTarget
	}
	if isBlank(name) {
		return ErrBlankName
	}

	key, err := c.gen.RefKey(ref)
	if err != nil {
		return err
	}
	tripleKey := c.gen.TripleKey(version, target, name)

	c.triples.Store(tripleKey, ref)
	c.refs.LoadOrStore(key, ref)
	putsTotal.WithLabelValues(c.name).Inc()
	return nil
}

// GetByTriple returns the handle registered under the triple's secondary
// key. ok reports whether the key was present; absence is a normal
// outcome, not an error. err carries the realization failure when the
// entry exists but its handle cannot be produced.
func (c *Cache) GetByTriple(version, target, name string) (conn grpc.ClientConnInterface, ok bool, err error) {
	v, ok := c.triples.Load(c.gen.TripleKey(version, target, name))
	if !ok {
		return nil, false, nil
	}
	conn, err = v.(Ref).Conn()
	return conn, true, err
}

// HasTriple reports whether an entry is registered under the triple's
// secondary key. It is a pure query with no side effects.
func (c *Cache) HasTriple(version, target, name string) bool {
	_, ok := c.triples.Load(c.gen.TripleKey(version, target, name))
	return ok
}

// destroyKey removes the primary entry for key and tears it down. A missing
// key is a no-op, which makes every destroy path idempotent by
// construction: the second call finds nothing left to remove.
func (c *Cache) destroyKey(key string) error {
	v, ok := c.refs.LoadAndDelete(key)
	if !ok {
		return nil
	}
	destroysTotal.WithLabelValues(c.name).Inc()
	return v.(Ref).Destroy()
}

// Destroy removes the primary entry for ref's identity and tears it down.
//
// The matching secondary entry, if any, stays in place; DestroyByTriple is
// the symmetric operation for the other key space. The two spaces are
// deliberately torn down independently.
func (c *Cache) Destroy(ref Ref) error {
	key, err := c.gen.RefKey(ref)
	if err != nil {
		return err
	}
	return c.destroyKey(key)
}

// DestroyByTriple removes the secondary entry for the triple and tears it
// down. The primary entry, if any, stays in place (the mirror of Destroy's
// asymmetry). A missing key is a no-op.
func (c *Cache) DestroyByTriple(version, target, name string) error {
	v, ok := c.triples.LoadAndDelete(c.gen.TripleKey(version, target, name))
	if !ok {
		return nil
	}
	destroysTotal.WithLabelValues(c.name).Inc()
	return v.(Ref).Destroy()
}

// DestroyAll tears down every primary entry present when the sweep starts.
// The key set is snapshotted first, so entries inserted concurrently with
// the sweep may survive it; nothing is ever destroyed twice. Teardown
// errors are collected and joined rather than aborting the sweep.
func (c *Cache) DestroyAll() error {
	var keys []string
	c.refs.Range(func(key, _ any) bool {
		keys = append(keys, key.(string))
		return true
	})

	var errs []error
	for _, key := range keys {
		if err := c.destroyKey(key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
