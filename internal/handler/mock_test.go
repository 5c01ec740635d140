package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/farm-logbook/backend/internal/domain"
	"github.com/pkordes/farm-logbook/backend/internal/handler"
	"github.com/pkordes/farm-logbook/backend/internal/service"
)

// mockResolver is a test double for handler.Resolver.
// It records the identifiers it was asked to resolve.
type mockResolver[T domain.Entity] struct {
	resolve func(ctx context.Context, identifier string) (service.Resolution[T], error)
	calls   []string
}

func (m *mockResolver[T]) Resolve(ctx context.Context, identifier string) (service.Resolution[T], error) {
	m.calls = append(m.calls, identifier)
	return m.resolve(ctx, identifier)
}

// mockSuggester is a test double for handler.Suggester.
type mockSuggester struct {
	search func(ctx context.Context, kind domain.Kind, query string) []domain.Suggestion
}

func (m *mockSuggester) Search(ctx context.Context, kind domain.Kind, query string) []domain.Suggestion {
	return m.search(ctx, kind, query)
}

// mockSearchServicer is a test double for handler.SearchServicer.
type mockSearchServicer struct {
	search func(ctx context.Context, query, typeFilter, categoryFilter string) (service.SearchResults, error)
}

func (m *mockSearchServicer) Search(ctx context.Context, query, typeFilter, categoryFilter string) (service.SearchResults, error) {
	return m.search(ctx, query, typeFilter, categoryFilter)
}

// mockHistory is a test double for handler.HistoryLister.
type mockHistory struct {
	detail func(ctx context.Context, e domain.Equipment) (domain.EquipmentDetail, error)
}

func (m *mockHistory) Detail(ctx context.Context, e domain.Equipment) (domain.EquipmentDetail, error) {
	return m.detail(ctx, e)
}

// mockPinger is a test double for handler.Pinger.
type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(context.Context) error { return m.err }

// compile-time checks: mocks must satisfy the handler interfaces.
var (
	_ handler.Resolver[domain.Equipment] = (*mockResolver[domain.Equipment])(nil)
	_ handler.Suggester                  = (*mockSuggester)(nil)
	_ handler.SearchServicer             = (*mockSearchServicer)(nil)
	_ handler.HistoryLister              = (*mockHistory)(nil)
	_ handler.Pinger                     = (*mockPinger)(nil)
)

// ---- helpers ---------------------------------------------------------------

// notCalled returns a resolver that fails the test if it is used.
func notCalled[T domain.Entity](t *testing.T) *mockResolver[T] {
	return &mockResolver[T]{resolve: func(context.Context, string) (service.Resolution[T], error) {
		t.Fatal("resolver should not be called")
		return service.Resolution[T]{}, nil
	}}
}

// newDeps returns Deps whose collaborators all fail the test when called.
// Tests replace the ones they exercise.
func newDeps(t *testing.T) handler.Deps {
	return handler.Deps{
		Equipment:   notCalled[domain.Equipment](t),
		Buildings:   notCalled[domain.Building](t),
		Locations:   notCalled[domain.Location](t),
		Maintenance: notCalled[domain.MaintenanceLog](t),
		Suggest: &mockSuggester{search: func(context.Context, domain.Kind, string) []domain.Suggestion {
			t.Fatal("suggester should not be called")
			return nil
		}},
		Search: &mockSearchServicer{search: func(context.Context, string, string, string) (service.SearchResults, error) {
			t.Fatal("search should not be called")
			return service.SearchResults{}, nil
		}},
	}
}

// serve runs req through the real chi router built by Server.Routes.
func serve(deps handler.Deps, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler.NewServer(deps).Routes().ServeHTTP(rec, req)
	return rec
}

func get(deps handler.Deps, target string) *httptest.ResponseRecorder {
	return serve(deps, httptest.NewRequest(http.MethodGet, target, nil))
}

// decode unmarshals the response body into a value of type T.
func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}
