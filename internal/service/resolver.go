package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"

	"github.com/pkordes/farm-logbook/backend/internal/domain"
	"github.com/pkordes/farm-logbook/backend/internal/metrics"
	"github.com/pkordes/farm-logbook/backend/internal/slug"
)

// Stage names the resolution strategy that produced a match.
type Stage string

const (
	StageSlugMatch      Stage = "slug-match"
	StageExactName      Stage = "exact-name"
	StageFirstCandidate Stage = "first-candidate"
	StageIDLookup       Stage = "id-lookup"
	StageFallbackScan   Stage = "fallback-scan"
)

// Resolution is a resolved record and the stage that found it.
type Resolution[T domain.Entity] struct {
	Record T
	Stage  Stage
}

// attempt is the state shared by the strategies of one Resolve call.
type attempt[T domain.Entity] struct {
	identifier string
	target     string // slug of identifier
	candidates []T
}

// strategy is one step of the cascade. ok is false when it has no match.
type strategy[T domain.Entity] struct {
	stage Stage
	run   func(ctx context.Context, a *attempt[T]) (rec T, ok bool, err error)
}

// Resolver turns a human-friendly identifier (a slug, a display name, a
// partial name or a raw id) into exactly one record.
//
// Display names are not unique, so several records can match. The cascade
// picks deterministically by stage order and then by the fetcher's sort;
// it never reports ambiguity.
type Resolver[T domain.Entity] struct {
	fetch  *Fetcher[T]
	stages []strategy[T]
	fold   cases.Caser
	kind   domain.Kind
	log    *slog.Logger
	obs    *metrics.Observer
}

// NewResolver constructs a Resolver over f.
func NewResolver[T domain.Entity](f *Fetcher[T], opts ...Option) *Resolver[T] {
	o := buildOptions(opts)
	var zero T
	r := &Resolver[T]{
		fetch: f,
		fold:  cases.Fold(),
		kind:  zero.Kind(),
		log:   o.logger,
		obs:   o.observer,
	}
	r.stages = []strategy[T]{
		{StageSlugMatch, r.slugMatch},
		{StageExactName, r.exactName},
		{StageFirstCandidate, r.firstCandidate},
		{StageIDLookup, r.idLookup},
		{StageFallbackScan, r.fallbackScan},
	}
	return r
}

// Resolve runs the cascade for identifier and returns the first match.
// A blank identifier, or one no stage matches, yields domain.ErrNotFound.
// Store failures are returned wrapped in domain.ErrStoreUnavailable.
func (r *Resolver[T]) Resolve(ctx context.Context, identifier string) (Resolution[T], error) {
	if strings.TrimSpace(identifier) == "" {
		return Resolution[T]{}, fmt.Errorf("service.Resolver.Resolve: empty identifier: %w", domain.ErrNotFound)
	}

	candidates, err := r.fetch.Candidates(ctx, identifier)
	if err != nil {
		return Resolution[T]{}, fmt.Errorf("service.Resolver.Resolve: %w", err)
	}

	a := &attempt[T]{identifier: identifier, target: slug.Make(identifier), candidates: candidates}
	for _, s := range r.stages {
		rec, ok, err := s.run(ctx, a)
		if err != nil {
			return Resolution[T]{}, fmt.Errorf("service.Resolver.Resolve: %s: %w", s.stage, err)
		}
		if ok {
			r.obs.OnResolve(r.kind, string(s.stage))
			r.log.DebugContext(ctx, "identifier resolved",
				"kind", r.kind, "identifier", identifier, "stage", s.stage,
				"id", rec.EntityID(), "candidates", len(candidates))
			return Resolution[T]{Record: rec, Stage: s.stage}, nil
		}
	}

	r.obs.OnResolve(r.kind, "not-found")
	return Resolution[T]{}, fmt.Errorf("service.Resolver.Resolve: %q: %w", identifier, domain.ErrNotFound)
}

func (r *Resolver[T]) slugMatch(_ context.Context, a *attempt[T]) (T, bool, error) {
	rec, ok := firstWithSlug(a.candidates, a.target)
	return rec, ok, nil
}

func (r *Resolver[T]) exactName(_ context.Context, a *attempt[T]) (T, bool, error) {
	want := r.fold.String(a.identifier)
	for _, c := range a.candidates {
		if r.fold.String(c.DisplayName()) == want {
			return c, true, nil
		}
	}
	var zero T
	return zero, false, nil
}

func (r *Resolver[T]) firstCandidate(_ context.Context, a *attempt[T]) (T, bool, error) {
	if len(a.candidates) == 0 {
		var zero T
		return zero, false, nil
	}
	return a.candidates[0], true, nil
}

func (r *Resolver[T]) idLookup(ctx context.Context, a *attempt[T]) (T, bool, error) {
	var zero T
	id, ok := parseID(a.identifier)
	if !ok {
		return zero, false, nil
	}
	rec, err := r.fetch.ByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}
	return rec, true, nil
}

// fallbackScan covers names the inclusive filter cannot anchor, for
// example legacy slugs whose punctuation differs from the stored name.
func (r *Resolver[T]) fallbackScan(ctx context.Context, a *attempt[T]) (T, bool, error) {
	var zero T
	if a.target == "" {
		return zero, false, nil
	}
	recs, err := r.fetch.Scan(ctx)
	if err != nil {
		return zero, false, err
	}
	rec, ok := firstWithSlug(recs, a.target)
	return rec, ok, nil
}

// firstWithSlug returns the first record whose display-name slug is target.
// An empty target matches nothing.
func firstWithSlug[T domain.Entity](recs []T, target string) (T, bool) {
	for _, rec := range recs {
		if slug.Equal(rec.DisplayName(), target) {
			return rec, true
		}
	}
	var zero T
	return zero, false
}
