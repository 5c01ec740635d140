package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/farm-logbook/backend/internal/domain"
	"github.com/pkordes/farm-logbook/backend/internal/repo"
	"github.com/pkordes/farm-logbook/backend/internal/slug"
)

// Fetcher retrieves the records that might match a human-friendly
// identifier. It over-fetches on purpose; choosing among the candidates is
// the Resolver's job.
type Fetcher[T domain.Entity] struct {
	reader         repo.Reader[T]
	candidateLimit int
	scanLimit      int
}

// NewFetcher constructs a Fetcher over reader.
func NewFetcher[T domain.Entity](reader repo.Reader[T], limits Limits) *Fetcher[T] {
	limits = limits.withDefaults()
	return &Fetcher[T]{reader: reader, candidateLimit: limits.Candidates, scanLimit: limits.Scan}
}

// Candidates returns records whose display name contains identifier, matches
// its slug tokens in order, or equals it, plus the record whose id is
// identifier when it parses as a UUID. One store query, ordered by display
// name then id.
func (f *Fetcher[T]) Candidates(ctx context.Context, identifier string) ([]T, error) {
	preds := []repo.Predicate{
		repo.Contains(repo.FieldName, identifier),
		repo.Tokens(repo.FieldName, slug.Tokens(slug.Make(identifier))),
		repo.Equals(repo.FieldName, identifier),
	}
	if id, ok := parseID(identifier); ok {
		preds = append(preds, repo.IDEquals(id))
	}

	recs, err := f.reader.Find(ctx, repo.Query{AnyOf: preds, Limit: f.candidateLimit})
	if err != nil {
		return nil, fmt.Errorf("service.Fetcher.Candidates: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return recs, nil
}

// Scan returns the first records of the collection in display-name order.
func (f *Fetcher[T]) Scan(ctx context.Context) ([]T, error) {
	recs, err := f.reader.Find(ctx, repo.Query{Limit: f.scanLimit})
	if err != nil {
		return nil, fmt.Errorf("service.Fetcher.Scan: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return recs, nil
}

// ByID looks a record up by id. Returns domain.ErrNotFound if there is none.
func (f *Fetcher[T]) ByID(ctx context.Context, id uuid.UUID) (T, error) {
	rec, err := f.reader.Get(ctx, id)
	if err != nil {
		var zero T
		if errors.Is(err, domain.ErrNotFound) {
			return zero, fmt.Errorf("service.Fetcher.ByID: %w", err)
		}
		return zero, fmt.Errorf("service.Fetcher.ByID: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return rec, nil
}

// parseID reports whether identifier has the shape of a storage id.
func parseID(identifier string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(identifier))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
