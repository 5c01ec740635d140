package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"golang.org/x/time/rate"

	"github.com/pkordes/farm-logbook/backend/internal/domain"
	"github.com/pkordes/farm-logbook/backend/internal/metrics"
)

// DefaultLivePoolSize bounds the fetches a LiveSearch runs at once when it
// owns its pool.
const DefaultLivePoolSize = 4

// Submitter runs tasks asynchronously. *ants.Pool satisfies it.
type Submitter interface {
	Submit(task func()) error
}

// Request is one state of a search input.
type Request struct {
	Query string
	// Type and Category are passed through to the fetch function. Only
	// aggregate fetches use them.
	Type     string
	Category string
}

// Result is the answer to one Request.
type Result struct {
	Seq         uint64
	Request     Request
	Suggestions []domain.Suggestion
	// Err is set when the fetch failed; Suggestions is then empty.
	Err error
}

// FetchFunc produces the suggestions for a request.
type FetchFunc func(ctx context.Context, req Request) ([]domain.Suggestion, error)

// IndexFetch returns a FetchFunc that searches one kind through idx.
// It never fails: store errors surface as an empty list.
func IndexFetch(idx *Index, kind domain.Kind) FetchFunc {
	return func(ctx context.Context, req Request) ([]domain.Suggestion, error) {
		return idx.Search(ctx, kind, req.Query), nil
	}
}

// AggregateFetch returns a FetchFunc that runs a cross-entity search.
func AggregateFetch(agg *Aggregator) FetchFunc {
	return func(ctx context.Context, req Request) ([]domain.Suggestion, error) {
		return agg.Aggregate(ctx, req.Query, req.Type, req.Category)
	}
}

// LiveSearch serves one search input whose value changes on every
// keystroke. Each Update is tagged with a sequence number and fetched
// asynchronously; a result is published only if no newer Update has been
// issued by the time it completes, so a slow response for "a" can never
// overwrite the response for "ab".
//
// Requests wait in a single slot holding the latest input. A free worker
// takes whatever the slot holds, so when every worker is stuck on a slow
// store, intermediate inputs are replaced rather than queued. In-flight
// fetches are not cancelled when superseded.
type LiveSearch struct {
	fetch    FetchFunc
	pool     Submitter
	ownPool  *ants.Pool
	workers  int
	limiter  *rate.Limiter
	onResult func(Result)
	log      *slog.Logger
	obs      *metrics.Observer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	seq      uint64
	current  Result
	pending  *liveJob
	active   int // drain loops submitted and not yet exited
	starting int // drain loops submitted but not yet running

	// deliverMu serialises publication so handlers see results in
	// sequence order.
	deliverMu sync.Mutex
}

type liveJob struct {
	seq uint64
	req Request
}

// NewLiveSearch starts a session that answers requests with fetch.
// Call Close when done.
func NewLiveSearch(fetch FetchFunc, opts ...Option) (*LiveSearch, error) {
	o := buildOptions(opts)
	ctx, cancel := context.WithCancel(context.Background())
	l := &LiveSearch{
		fetch:    fetch,
		pool:     o.pool,
		workers:  DefaultLivePoolSize,
		onResult: o.onResult,
		log:      o.logger,
		obs:      o.observer,
		ctx:      ctx,
		cancel:   cancel,
		current:  Result{Suggestions: []domain.Suggestion{}},
	}
	if l.pool == nil {
		pool, err := ants.NewPool(DefaultLivePoolSize, ants.WithNonblocking(true))
		if err != nil {
			cancel()
			return nil, fmt.Errorf("service.NewLiveSearch: pool: %w", err)
		}
		l.pool, l.ownPool = pool, pool
	} else if c, ok := l.pool.(interface{ Cap() int }); ok && c.Cap() > 0 {
		l.workers = c.Cap()
	}
	if o.rate > 0 {
		l.limiter = rate.NewLimiter(rate.Limit(o.rate), 1)
	}
	return l, nil
}

// Update records req as the latest input and schedules its fetch. It
// returns the sequence number assigned to req and never blocks on the store.
func (l *LiveSearch) Update(req Request) uint64 {
	l.mu.Lock()
	l.seq++
	seq := l.seq
	if err := l.ctx.Err(); err != nil {
		l.mu.Unlock()
		l.publish(seq, req, nil, fmt.Errorf("service.LiveSearch.Update: closed: %w", err))
		return seq
	}
	if l.pending != nil {
		l.obs.OnDiscard(metrics.ReasonSuperseded)
	}
	l.pending = &liveJob{seq: seq, req: req}
	spawn := l.starting == 0 && l.active < l.workers
	if spawn {
		l.starting++
		l.active++
		l.wg.Add(1)
	}
	l.mu.Unlock()

	if !spawn {
		return seq
	}
	err := l.pool.Submit(l.drain)
	switch {
	case err == nil:
	case errors.Is(err, ants.ErrPoolOverload):
		l.mu.Lock()
		if l.active > 1 {
			// A running loop takes the slot when its fetch returns.
			l.starting--
			l.active--
			l.mu.Unlock()
			l.wg.Done()
			return seq
		}
		l.mu.Unlock()
		go l.drain()
	default:
		l.mu.Lock()
		l.starting--
		l.active--
		if l.pending != nil && l.pending.seq == seq {
			l.pending = nil
		}
		l.mu.Unlock()
		l.wg.Done()
		l.log.Warn("live search dispatch failed", "seq", seq, "query", req.Query, "error", err)
		l.publish(seq, req, nil, fmt.Errorf("service.LiveSearch.Update: %w", err))
	}
	return seq
}

// drain runs the pending request until the slot is empty.
func (l *LiveSearch) drain() {
	defer l.wg.Done()
	first := true
	for {
		l.mu.Lock()
		if first {
			l.starting--
			first = false
		}
		job := l.pending
		l.pending = nil
		if job == nil || l.ctx.Err() != nil {
			l.active--
			l.mu.Unlock()
			return
		}
		l.mu.Unlock()
		l.run(job.seq, job.req)
	}
}

func (l *LiveSearch) run(seq uint64, req Request) {
	if strings.TrimSpace(req.Query) == "" {
		l.publish(seq, req, nil, nil)
		return
	}
	if l.limiter != nil {
		if l.superseded(seq) {
			l.obs.OnDiscard(metrics.ReasonSuperseded)
			return
		}
		if err := l.limiter.Wait(l.ctx); err != nil {
			return // closed
		}
	}
	if l.superseded(seq) {
		l.obs.OnDiscard(metrics.ReasonSuperseded)
		return
	}

	sugs, err := l.fetch(l.ctx, req)
	if err != nil {
		l.log.Warn("live search fetch failed", "seq", seq, "query", req.Query, "error", err)
	}
	l.publish(seq, req, sugs, err)
}

func (l *LiveSearch) superseded(seq uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return seq != l.seq
}

// publish makes the result for seq current unless a newer request exists.
func (l *LiveSearch) publish(seq uint64, req Request, sugs []domain.Suggestion, err error) {
	if err != nil || sugs == nil {
		sugs = []domain.Suggestion{}
	}

	l.deliverMu.Lock()
	defer l.deliverMu.Unlock()

	l.mu.Lock()
	if seq != l.seq {
		latest := l.seq
		l.mu.Unlock()
		l.obs.OnDiscard(metrics.ReasonStale)
		l.log.Debug("discarding stale search result", "seq", seq, "latest", latest, "query", req.Query)
		return
	}
	res := Result{Seq: seq, Request: req, Suggestions: sugs, Err: err}
	l.current = res
	l.mu.Unlock()

	if l.onResult != nil {
		l.onResult(res)
	}
}

// Current returns the most recently published result.
func (l *LiveSearch) Current() Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// Wait blocks until every scheduled fetch has finished or been skipped.
func (l *LiveSearch) Wait() {
	l.wg.Wait()
}

// Close stops the session. Fetches waiting on the rate limiter are
// abandoned and running ones see a cancelled context. Close returns once
// all of them have finished.
func (l *LiveSearch) Close() {
	l.cancel()
	l.wg.Wait()
	if l.ownPool != nil {
		l.ownPool.Release()
	}
}
