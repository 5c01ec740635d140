package service_test

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/pkordes/farm-logbook/backend/internal/domain"
	"github.com/pkordes/farm-logbook/backend/internal/repo"
)

var errUnexpected = errors.New("unexpected call")

// mockReader is a hand-written test double for repo.Reader.
// Each method is a function field; set only the ones your test needs.
// Calls are recorded so tests can assert how many store round trips ran.
type mockReader[T domain.Entity] struct {
	find func(ctx context.Context, q repo.Query) ([]T, error)
	get  func(ctx context.Context, id uuid.UUID) (T, error)

	mu      sync.Mutex
	queries []repo.Query
	gets    []uuid.UUID
}

func (m *mockReader[T]) Find(ctx context.Context, q repo.Query) ([]T, error) {
	m.mu.Lock()
	m.queries = append(m.queries, q)
	m.mu.Unlock()
	if m.find == nil {
		return nil, errUnexpected
	}
	return m.find(ctx, q)
}

func (m *mockReader[T]) Get(ctx context.Context, id uuid.UUID) (T, error) {
	m.mu.Lock()
	m.gets = append(m.gets, id)
	m.mu.Unlock()
	if m.get == nil {
		var zero T
		return zero, errUnexpected
	}
	return m.get(ctx, id)
}

func (m *mockReader[T]) findCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queries)
}

func (m *mockReader[T]) getCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.gets)
}

// compile-time check: mockReader must satisfy repo.Reader.
var (
	_ repo.Reader[domain.Equipment]      = (*mockReader[domain.Equipment])(nil)
	_ repo.Reader[domain.Building]       = (*mockReader[domain.Building])(nil)
	_ repo.Reader[domain.Location]       = (*mockReader[domain.Location])(nil)
	_ repo.Reader[domain.MaintenanceLog] = (*mockReader[domain.MaintenanceLog])(nil)
)

// returns builds a find func that always returns recs.
func returns[T domain.Entity](recs ...T) func(context.Context, repo.Query) ([]T, error) {
	return func(context.Context, repo.Query) ([]T, error) {
		if recs == nil {
			return []T{}, nil
		}
		return recs, nil
	}
}

// failing builds a find func that always fails.
func failing[T domain.Entity](err error) func(context.Context, repo.Query) ([]T, error) {
	return func(context.Context, repo.Query) ([]T, error) {
		return nil, err
	}
}

// mockReaders returns repo.Readers whose collections are all empty mocks.
func mockReaders() (repo.Readers, *mockReader[domain.Equipment], *mockReader[domain.Building], *mockReader[domain.Location], *mockReader[domain.MaintenanceLog]) {
	eq := &mockReader[domain.Equipment]{find: returns[domain.Equipment]()}
	bl := &mockReader[domain.Building]{find: returns[domain.Building]()}
	lo := &mockReader[domain.Location]{find: returns[domain.Location]()}
	ml := &mockReader[domain.MaintenanceLog]{find: returns[domain.MaintenanceLog]()}
	return repo.Readers{Equipment: eq, Buildings: bl, Locations: lo, Maintenance: ml}, eq, bl, lo, ml
}

func building(name string) domain.Building {
	return domain.Building{ID: uuid.New(), Name: name}
}
