package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pkordes/farm-logbook/backend/internal/domain"
	"github.com/pkordes/farm-logbook/backend/internal/metrics"
	"github.com/pkordes/farm-logbook/backend/internal/repo"
	"github.com/pkordes/farm-logbook/backend/internal/slug"
)

// searchFields lists, per kind, the fields a query is matched against.
var searchFields = map[domain.Kind][]string{
	domain.KindEquipment:   {repo.FieldName, "unit_number", "category", "make", "model"},
	domain.KindBuilding:    {repo.FieldName, "code", "type", "description"},
	domain.KindLocation:    {repo.FieldName, "code", "city", "province"},
	domain.KindMaintenance: {repo.FieldName, "description"},
}

// searcher fetches up to limit suggestions of one kind for query.
type searcher func(ctx context.Context, query string, limit int) ([]domain.Suggestion, error)

// Index answers typeahead queries against the record store. There is no
// separate index structure; every search is a capped substring query.
type Index struct {
	searchers map[domain.Kind]searcher
	limit     int
	log       *slog.Logger
	obs       *metrics.Observer
}

// NewIndex constructs an Index over the given readers.
func NewIndex(readers repo.Readers, limits Limits, opts ...Option) *Index {
	o := buildOptions(opts)
	return &Index{
		searchers: map[domain.Kind]searcher{
			domain.KindEquipment:   newSearcher(readers.Equipment, domain.KindEquipment),
			domain.KindBuilding:    newSearcher(readers.Buildings, domain.KindBuilding),
			domain.KindLocation:    newSearcher(readers.Locations, domain.KindLocation),
			domain.KindMaintenance: newSearcher(readers.Maintenance, domain.KindMaintenance),
		},
		limit: limits.withDefaults().Suggestions,
		log:   o.logger,
		obs:   o.observer,
	}
}

// Search returns up to the configured number of suggestions of kind whose
// search fields contain query, case-insensitively.
//
// A blank query returns an empty list without touching the store. Store
// failures are logged and also yield an empty list: a search box must keep
// working while the store is down.
func (x *Index) Search(ctx context.Context, kind domain.Kind, query string) []domain.Suggestion {
	sugs, err := x.fetch(ctx, kind, query, x.limit)
	if err != nil {
		x.log.WarnContext(ctx, "search failed", "kind", kind, "query", query, "error", err)
		return []domain.Suggestion{}
	}
	return sugs
}

// fetch is Search without the failure masking.
func (x *Index) fetch(ctx context.Context, kind domain.Kind, query string, limit int) ([]domain.Suggestion, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.Suggestion{}, nil
	}
	search, ok := x.searchers[kind]
	if !ok {
		return nil, fmt.Errorf("service.Index.fetch: %w: unknown kind %q", domain.ErrValidation, kind)
	}

	start := time.Now()
	sugs, err := search(ctx, query, limit)
	x.obs.OnSearch(kind, time.Since(start), len(sugs), err)
	if err != nil {
		return nil, fmt.Errorf("service.Index.fetch(%s): %w: %w", kind, domain.ErrStoreUnavailable, err)
	}
	return sugs, nil
}

func newSearcher[T domain.Entity](r repo.Reader[T], kind domain.Kind) searcher {
	fields := searchFields[kind]
	return func(ctx context.Context, query string, limit int) ([]domain.Suggestion, error) {
		recs, err := r.Find(ctx, repo.Query{AnyOf: repo.ContainsAny(query, fields...), Limit: limit})
		if err != nil {
			return nil, err
		}
		out := make([]domain.Suggestion, 0, len(recs))
		for _, rec := range recs {
			out = append(out, Suggest(rec))
		}
		return out, nil
	}
}

// Suggest projects a record into a search suggestion.
func Suggest[T domain.Entity](rec T) domain.Suggestion {
	s := domain.Suggestion{
		ID:       rec.EntityID(),
		Kind:     rec.Kind(),
		Title:    rec.Headline(),
		Subtitle: rec.Detail(),
		Slug:     slug.Make(rec.DisplayName()),
	}
	if e, ok := any(rec).(domain.Equipment); ok {
		s.Category = strings.TrimSpace(e.Category)
	}
	return s
}
