// Package reference provides the concrete remote reference stored in a
// refcache.Cache: a named gRPC endpoint whose client connection is created
// lazily on first use.
//
// Construction is cheap and performs no I/O. A Reference that is never
// realized holds no resources, so the cache may discard losing duplicates
// without tearing them down.
package reference

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Keksclan/goStashSquirrel/refcache"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// ErrDestroyed is returned by Conn after Destroy has been called.
var ErrDestroyed = errors.New("reference: reference has been destroyed")

var _ refcache.Ref = (*Reference)(nil)

// Reference is a lazily realized client reference to a remote gRPC service.
// It is safe for concurrent use.
type Reference struct {
	target   string
	group    string
	service  string
	version  string
	desc     *grpc.ServiceDesc
	dialOpts []grpc.DialOption

	mu        sync.Mutex
	conn      *grpc.ClientConn
	destroyed bool
}

// Option configures a Reference.
type Option func(*Reference)

// WithGroup sets the logical group the referenced service belongs to.
func WithGroup(group string) Option {
	return func(r *Reference) { r.group = group }
}

// WithVersion sets the version of the referenced service.
func WithVersion(version string) Option {
	return func(r *Reference) { r.version = version }
}

// WithServiceDesc attaches the gRPC service descriptor. The descriptor's
// ServiceName serves as the reference's identity when no explicit service
// name was given.
func WithServiceDesc(desc *grpc.ServiceDesc) Option {
	return func(r *Reference) { r.desc = desc }
}

// WithDialOptions appends dial options used when the connection is realized.
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(r *Reference) { r.dialOpts = append(r.dialOpts, opts...) }
}

// WithInsecure disables transport security for the realized connection.
func WithInsecure() Option {
	return func(r *Reference) {
		r.dialOpts = append(r.dialOpts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}
}

// New builds a reference to the given service at the given target. The
// connection is not created until Conn is called.
func New(target, service string, opts ...Option) *Reference {
	r := &Reference{target: target, service: service}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Target returns the endpoint this reference points at.
func (r *Reference) Target() string { return r.target }

// Group returns the logical group, or "" when none was set.
func (r *Reference) Group() string { return r.group }

// Service returns the service name this reference was built with.
func (r *Reference) Service() string { return r.service }

// Version returns the service version, or "" when none was set.
func (r *Reference) Version() string { return r.version }

// Desc returns the attached service descriptor, or nil.
func (r *Reference) Desc() *grpc.ServiceDesc { return r.desc }

// Conn realizes the reference, creating the underlying client connection on
// first call and returning the same connection afterwards. A failed attempt
// is not sticky: the next call tries again.
func (r *Reference) Conn() (grpc.ClientConnInterface, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.destroyed {
		return nil, ErrDestroyed
	}
	if r.conn == nil {
		conn, err := grpc.NewClient(r.target, r.dialOpts...)
		if err != nil {
			return nil, fmt.Errorf("reference: dial %s: %w", r.target, err)
		}
		r.conn = conn
	}
	return r.conn, nil
}

// Destroy tears the reference down, closing the connection if one was
// realized. Destroy is idempotent; after it returns, Conn reports
// ErrDestroyed.
func (r *Reference) Destroy() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.destroyed {
		return nil
	}
	r.destroyed = true
	if r.conn == nil {
		return nil
	}
	conn := r.conn
	r.conn = nil
	if err := conn.Close(); err != nil {
		return fmt.Errorf("reference: close %s: %w", r.target, err)
	}
	return nil
}

func (r *Reference) String() string {
	s := r.service
	if s == "" && r.desc != nil {
		s = r.desc.ServiceName
	}
	out := "reference.Reference(service: " + s
	if r.version != "" {
		out += ", version: " + r.version
	}
	out += ", target: " + r.target + ")"
	return out
}
