package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the service's Prometheus instruments on its own registry
// so nothing is registered process-wide. It is built once in main and
// injected where needed.
type Collector struct {
	registry *prometheus.Registry

	// RowsSkipped counts reservation rows dropped from list responses
	// because they failed to parse.
	RowsSkipped prometheus.Counter

	// EnrichmentFailures counts court lookups that failed or returned
	// nothing during list enrichment.
	EnrichmentFailures prometheus.Counter
}

func New() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		registry: reg,
		RowsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "courtmate",
			Subsystem: "reservations",
			Name:      "rows_skipped_total",
			Help:      "Reservation rows dropped from list responses because they failed to parse.",
		}),
		EnrichmentFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "courtmate",
			Subsystem: "reservations",
			Name:      "enrichment_failures_total",
			Help:      "Court enrichment lookups that failed or returned no row.",
		}),
	}

	reg.MustRegister(c.RowsSkipped, c.EnrichmentFailures)

	return c
}

// Handler exposes the registry in Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
