package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pkordes/farm-logbook/backend/internal/domain"
)

// TypeAll is the type filter that includes every collection.
const TypeAll = "all"

// SearchResults is the outcome of a cross-entity search.
type SearchResults struct {
	// Results are the suggestions left after the category filter, grouped
	// by collection in domain.SearchOrder.
	Results []domain.Suggestion
	// Categories are the distinct categories present before the category
	// filter, for populating a filter dropdown.
	Categories []string
}

// Aggregator searches several collections at once.
type Aggregator struct {
	index *Index
	limit int
	log   *slog.Logger
}

// NewAggregator constructs an Aggregator that fetches through index.
func NewAggregator(index *Index, limits Limits, opts ...Option) *Aggregator {
	o := buildOptions(opts)
	return &Aggregator{index: index, limit: limits.withDefaults().Aggregate, log: o.logger}
}

// Aggregate returns the suggestions for query across the collections
// selected by typeFilter, with categoryFilter applied to records that have
// a category. See Search.
func (a *Aggregator) Aggregate(ctx context.Context, query, typeFilter, categoryFilter string) ([]domain.Suggestion, error) {
	res, err := a.Search(ctx, query, typeFilter, categoryFilter)
	if err != nil {
		return nil, err
	}
	return res.Results, nil
}

// Search fetches query from every collection selected by typeFilter ("all",
// "" or one kind) in parallel and concatenates the results in collection
// order. Results are not re-ranked across collections.
//
// If any fetch fails the whole search fails with domain.ErrStoreUnavailable;
// partial results are never returned. An unknown typeFilter fails with
// domain.ErrValidation. A blank query returns no results and issues no
// store queries.
func (a *Aggregator) Search(ctx context.Context, query, typeFilter, categoryFilter string) (SearchResults, error) {
	kinds, err := includedKinds(typeFilter)
	if err != nil {
		return SearchResults{}, fmt.Errorf("service.Aggregator.Search: %w", err)
	}
	if strings.TrimSpace(query) == "" {
		return SearchResults{Results: []domain.Suggestion{}, Categories: []string{}}, nil
	}

	perKind := make([][]domain.Suggestion, len(kinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		g.Go(func() error {
			sugs, err := a.index.fetch(gctx, kind, query, a.limit)
			if err != nil {
				return err
			}
			perKind[i] = sugs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		a.log.WarnContext(ctx, "cross-entity search failed", "query", query, "type", typeFilter, "error", err)
		return SearchResults{}, fmt.Errorf("service.Aggregator.Search: %w", err)
	}

	all := slices.Concat(perKind...)
	return SearchResults{
		Results:    filterCategory(all, categoryFilter),
		Categories: Categories(all),
	}, nil
}

// includedKinds maps a type filter to the collections it selects.
func includedKinds(typeFilter string) ([]domain.Kind, error) {
	t := strings.TrimSpace(typeFilter)
	if t == "" || strings.EqualFold(t, TypeAll) {
		return domain.SearchOrder, nil
	}
	kind, err := domain.ParseKind(t)
	if err != nil {
		return nil, err
	}
	return []domain.Kind{kind}, nil
}

// filterCategory drops records that have a category other than category.
// Records of kinds without categories always pass. A blank or "all"
// category keeps everything.
func filterCategory(sugs []domain.Suggestion, category string) []domain.Suggestion {
	if category == "" || strings.EqualFold(category, TypeAll) {
		return sugs
	}
	out := make([]domain.Suggestion, 0, len(sugs))
	for _, s := range sugs {
		if s.Kind.HasCategory() && s.Category != category {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Categories returns the distinct non-empty categories in sugs, sorted.
func Categories(sugs []domain.Suggestion) []string {
	out := []string{}
	for _, s := range sugs {
		if s.Category != "" && !slices.Contains(out, s.Category) {
			out = append(out, s.Category)
		}
	}
	slices.Sort(out)
	return out
}
