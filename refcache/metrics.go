package refcache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Values for the "result" label of getsTotal.
const (
	resultHit  = "hit"
	resultMiss = "miss"
)

// Counters are registered on the default Prometheus registerer and exposed
// through whatever handler the application serves (for example
// Client.MetricsHandler in the root package). They observe; they never
// influence cache behavior.
var (
	getsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stash",
		Subsystem: "refcache",
		Name:      "gets_total",
		Help:      "Primary-key lookups, partitioned by cache name and hit/miss.",
	}, []string{"cache", "result"})

	putsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stash",
		Subsystem: "refcache",
		Name:      "puts_total",
		Help:      "Explicit triple-key registrations, partitioned by cache name.",
	}, []string{"cache"})

	destroysTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stash",
		Subsystem: "refcache",
		Name:      "destroys_total",
		Help:      "Entries actually torn down, partitioned by cache name.",
	}, []string{"cache"})
)
