// Package service implements identifier resolution and search over the
// record store. Services depend on repo.Reader interfaces so they can be
// unit-tested with mocks.
package service

import (
	"log/slog"

	"github.com/pkordes/farm-logbook/backend/internal/metrics"
)

// Limits caps the number of rows each kind of store query may return.
type Limits struct {
	// Candidates caps the inclusive filter used by resolution.
	Candidates int
	// Scan caps the full-collection fallback scan.
	Scan int
	// Suggestions caps typeahead results per collection.
	Suggestions int
	// Aggregate caps each collection's share of cross-entity search.
	Aggregate int
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{Candidates: 200, Scan: 500, Suggestions: 10, Aggregate: 20}
}

// withDefaults replaces non-positive limits with their defaults.
func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.Candidates <= 0 {
		l.Candidates = d.Candidates
	}
	if l.Scan <= 0 {
		l.Scan = d.Scan
	}
	if l.Suggestions <= 0 {
		l.Suggestions = d.Suggestions
	}
	if l.Aggregate <= 0 {
		l.Aggregate = d.Aggregate
	}
	return l
}

type options struct {
	logger   *slog.Logger
	observer *metrics.Observer

	// live search only
	pool     Submitter
	rate     float64
	onResult func(Result)
}

// Option configures a service.
type Option func(*options)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithObserver sets the metrics observer. Defaults to none.
func WithObserver(obs *metrics.Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

// WithPool makes a LiveSearch dispatch fetches on pool instead of creating
// its own. The caller owns pool and must release it.
func WithPool(pool Submitter) Option {
	return func(o *options) {
		o.pool = pool
	}
}

// WithRateLimit throttles LiveSearch store round trips to perSecond.
// Zero or less disables throttling.
func WithRateLimit(perSecond float64) Option {
	return func(o *options) {
		o.rate = perSecond
	}
}

// WithResultHandler registers fn to receive every result a LiveSearch
// publishes, in publication order.
func WithResultHandler(fn func(Result)) Option {
	return func(o *options) {
		o.onResult = fn
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}
