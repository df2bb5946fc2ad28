package refcache

import "errors"

// Sentinel errors returned by cache operations. All of them are surfaced
// before any map mutation, so a failed call never leaves a cache in a
// partially updated state.
var (
	// ErrNoService reports a reference that carries neither a service name
	// nor a service descriptor. Such a reference has no cacheable identity.
	ErrNoService = errors.New("reference has no service identity")

	// ErrBlankVersion, ErrBlankTarget and ErrBlankName report a blank field
	// in the (version, target, name) triple passed to Put. Each field is
	// checked independently so callers can tell which one was rejected.
	ErrBlankVersion = errors.New("version is blank")
	ErrBlankTarget  = errors.New("target is blank")
	ErrBlankName    = errors.New("name is blank")
)
