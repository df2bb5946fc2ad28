// Package gostashsquirrel provides a composable gRPC client runtime built
// around a process-wide cache of deduplicated service references. Callers
// that ask for the same service identity share one underlying connection,
// and every connection carries an outbound middleware chain assembled from
// functional options: metadata propagation, credential attachment,
// deadlines, tracing, response caching, retries, circuit breaking, and
// rate limiting.
package gostashsquirrel
