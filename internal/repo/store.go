// Package repo contains all record store access for the farm logbook.
// Collections describe how each record type is read; a Store runs the
// generated SQL against Postgres or SQLite. No business logic lives here,
// only SQL and type mapping. The store is read-only.
package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/farm-logbook/backend/internal/domain"
)

// Store runs read queries against a record store.
type Store interface {
	// Driver names the underlying database ("postgres" or "sqlite").
	Driver() string
	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error

	dialect() dialect
	// each runs st and calls fn once per result row.
	each(ctx context.Context, st statement, fn func(scanner) error) error
}

// Find runs q against collection c and returns the matching records.
func Find[T domain.Entity](ctx context.Context, s Store, c *Collection[T], q Query) ([]T, error) {
	st, err := buildSelect(s.dialect(), &c.table, q)
	if err != nil {
		return nil, err
	}

	out := []T{}
	err = s.each(ctx, st, func(row scanner) error {
		rec, err := c.scan(row)
		if err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		out = append(out, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns the record in c with the given id.
// Returns domain.ErrNotFound if there is none.
func Get[T domain.Entity](ctx context.Context, s Store, c *Collection[T], id uuid.UUID) (T, error) {
	var zero T
	recs, err := Find(ctx, s, c, Query{AnyOf: []Predicate{IDEquals(id)}, Limit: 1})
	if err != nil {
		return zero, err
	}
	if len(recs) == 0 {
		return zero, domain.ErrNotFound
	}
	return recs[0], nil
}

// Reader is the read surface of one collection. Services depend on this
// interface so they can be unit-tested with a mock.
type Reader[T domain.Entity] interface {
	// Find returns the records matching q, ordered by display name then id.
	Find(ctx context.Context, q Query) ([]T, error)

	// Get retrieves a single record by id.
	// Returns domain.ErrNotFound if no record with that id exists.
	Get(ctx context.Context, id uuid.UUID) (T, error)
}

type reader[T domain.Entity] struct {
	store Store
	c     *Collection[T]
}

// NewReader returns a Reader over collection c in store s.
func NewReader[T domain.Entity](s Store, c *Collection[T]) Reader[T] {
	return &reader[T]{store: s, c: c}
}

func (r *reader[T]) Find(ctx context.Context, q Query) ([]T, error) {
	recs, err := Find(ctx, r.store, r.c, q)
	if err != nil {
		return nil, fmt.Errorf("repo.Reader.Find(%s): %w", r.c.kind, err)
	}
	return recs, nil
}

func (r *reader[T]) Get(ctx context.Context, id uuid.UUID) (T, error) {
	rec, err := Get(ctx, r.store, r.c, id)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("repo.Reader.Get(%s): %w", r.c.kind, err)
	}
	return rec, nil
}

// Readers bundles one Reader per collection.
type Readers struct {
	Equipment   Reader[domain.Equipment]
	Buildings   Reader[domain.Building]
	Locations   Reader[domain.Location]
	Maintenance Reader[domain.MaintenanceLog]
}

// NewReaders returns Readers for every collection in s.
func NewReaders(s Store) Readers {
	return Readers{
		Equipment:   NewReader(s, Equipment),
		Buildings:   NewReader(s, Buildings),
		Locations:   NewReader(s, Locations),
		Maintenance: NewReader(s, MaintenanceLogs),
	}
}
