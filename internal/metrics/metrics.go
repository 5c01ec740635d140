// Package metrics holds the Prometheus collectors for resolution and search.
// A nil *Observer is valid and records nothing, so services can be built
// without metrics in tests and the CLI.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pkordes/farm-logbook/backend/internal/domain"
)

// Search outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// Live search discard reasons.
const (
	ReasonSuperseded = "superseded" // fetch skipped, a newer request arrived first
	ReasonStale      = "stale"      // fetch completed after a newer request
)

// Observer records resolution and search events.
type Observer struct {
	resolutions   *prometheus.CounterVec
	searches      *prometheus.CounterVec
	searchLatency *prometheus.HistogramVec
	discards      *prometheus.CounterVec
}

// New creates an Observer and registers its collectors with reg.
func New(reg prometheus.Registerer) *Observer {
	o := &Observer{
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "farmlog_resolutions_total",
			Help: "Identifier resolutions by record kind and the stage that matched",
		}, []string{"kind", "stage"}),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "farmlog_searches_total",
			Help: "Store searches by record kind and outcome",
		}, []string{"kind", "outcome"}),
		searchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "farmlog_search_duration_seconds",
			Help:    "Latency of store searches",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
		discards: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "farmlog_live_search_discards_total",
			Help: "Live search requests dropped because a newer one superseded them",
		}, []string{"reason"}),
	}

	reg.MustRegister(o.resolutions, o.searches, o.searchLatency, o.discards)
	return o
}

// OnResolve records a resolution that ended at stage.
func (o *Observer) OnResolve(kind domain.Kind, stage string) {
	if o == nil {
		return
	}
	o.resolutions.WithLabelValues(string(kind), stage).Inc()
}

// OnSearch records one store search.
func (o *Observer) OnSearch(kind domain.Kind, d time.Duration, n int, err error) {
	if o == nil {
		return
	}
	outcome := OutcomeOK
	switch {
	case err != nil:
		outcome = OutcomeError
	case n == 0:
		outcome = OutcomeEmpty
	}
	o.searches.WithLabelValues(string(kind), outcome).Inc()
	o.searchLatency.WithLabelValues(string(kind)).Observe(d.Seconds())
}

// OnDiscard records a dropped live search request.
func (o *Observer) OnDiscard(reason string) {
	if o == nil {
		return
	}
	o.discards.WithLabelValues(reason).Inc()
}
