package gostashsquirrel

// DefaultOptions returns the recommended set of options for production use.
// Currently this includes request metadata propagation; additional defaults
// may be added in future versions.
func DefaultOptions() []Option {
	return []Option{
		WithMetadata(),
	}
}
