package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/farm-logbook/backend/internal/domain"
	"github.com/pkordes/farm-logbook/backend/internal/handler"
	"github.com/pkordes/farm-logbook/backend/internal/service"
)

func equipmentFixture() domain.Equipment {
	return domain.Equipment{
		ID:         uuid.MustParse("6f1c2a9e-3d4b-4c5a-8e7f-0a1b2c3d4e5f"),
		Nickname:   "Big Red",
		UnitNumber: "7",
		Category:   "Tractor",
		Make:       "Case IH",
		Model:      "Magnum 340",
		Active:     true,
	}
}

// resolvedBody mirrors handler.ResolvedResponse with a concrete data type.
type resolvedBody[T any] struct {
	Kind       domain.Kind `json:"kind"`
	ResolvedBy string      `json:"resolved_by"`
	Data       T           `json:"data"`
}

func TestResolveEquipment_found(t *testing.T) {
	eq := equipmentFixture()
	mock := &mockResolver[domain.Equipment]{resolve: func(_ context.Context, identifier string) (service.Resolution[domain.Equipment], error) {
		return service.Resolution[domain.Equipment]{Record: eq, Stage: service.StageSlugMatch}, nil
	}}
	deps := newDeps(t)
	deps.Equipment = mock

	rec := get(deps, "/equipment/big-red")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "slug-match", rec.Header().Get("X-Resolved-By"))
	assert.Equal(t, []string{"big-red"}, mock.calls)

	body := decode[resolvedBody[domain.Equipment]](t, rec)
	assert.Equal(t, domain.KindEquipment, body.Kind)
	assert.Equal(t, "slug-match", body.ResolvedBy)
	assert.Equal(t, eq, body.Data)
}

func TestResolveEquipment_withMaintenance(t *testing.T) {
	eq := equipmentFixture()
	logs := []domain.MaintenanceLog{
		{ID: uuid.New(), EquipmentID: eq.ID, Title: "Belt", Status: "done", MaintenanceDate: "2025-06-15"},
		{ID: uuid.New(), EquipmentID: eq.ID, Title: "Oil change", MaintenanceDate: "2025-04-01"},
	}
	deps := newDeps(t)
	deps.Equipment = &mockResolver[domain.Equipment]{resolve: func(context.Context, string) (service.Resolution[domain.Equipment], error) {
		return service.Resolution[domain.Equipment]{Record: eq, Stage: service.StageExactName}, nil
	}}
	var asked []domain.Equipment
	deps.History = &mockHistory{detail: func(_ context.Context, e domain.Equipment) (domain.EquipmentDetail, error) {
		asked = append(asked, e)
		return domain.EquipmentDetail{Equipment: e, Maintenance: logs}, nil
	}}

	rec := get(deps, "/equipment/Big%20Red")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []domain.Equipment{eq}, asked)
	body := decode[resolvedBody[domain.EquipmentDetail]](t, rec)
	assert.Equal(t, domain.KindEquipment, body.Kind)
	assert.Equal(t, eq, body.Data.Equipment)
	assert.Equal(t, logs, body.Data.Maintenance)
}

func TestResolveEquipment_emptyMaintenanceIsArray(t *testing.T) {
	eq := equipmentFixture()
	deps := newDeps(t)
	deps.Equipment = &mockResolver[domain.Equipment]{resolve: func(context.Context, string) (service.Resolution[domain.Equipment], error) {
		return service.Resolution[domain.Equipment]{Record: eq, Stage: service.StageSlugMatch}, nil
	}}
	deps.History = &mockHistory{detail: func(_ context.Context, e domain.Equipment) (domain.EquipmentDetail, error) {
		return domain.EquipmentDetail{Equipment: e, Maintenance: []domain.MaintenanceLog{}}, nil
	}}

	rec := get(deps, "/equipment/big-red")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"maintenance":[]`)
}

func TestResolveEquipment_historyUnavailable(t *testing.T) {
	deps := newDeps(t)
	deps.Equipment = &mockResolver[domain.Equipment]{resolve: func(context.Context, string) (service.Resolution[domain.Equipment], error) {
		return service.Resolution[domain.Equipment]{Record: equipmentFixture(), Stage: service.StageSlugMatch}, nil
	}}
	deps.History = &mockHistory{detail: func(context.Context, domain.Equipment) (domain.EquipmentDetail, error) {
		return domain.EquipmentDetail{}, fmt.Errorf("history: %w", domain.ErrStoreUnavailable)
	}}

	rec := get(deps, "/equipment/big-red")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode[handler.ErrorResponse](t, rec)
	assert.Equal(t, "store_unavailable", body.Error.Code)
	assert.Empty(t, rec.Header().Get("X-Resolved-By"))
}

func TestResolve_decodesIdentifier(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"space", "/buildings/Main%20Barn", "Main Barn"},
		{"encoded slash", "/buildings/Shop%2FOffice", "Shop/Office"},
		{"unicode", "/buildings/Caf%C3%A9", "Café"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mock := &mockResolver[domain.Building]{resolve: func(context.Context, string) (service.Resolution[domain.Building], error) {
				return service.Resolution[domain.Building]{Record: domain.Building{Name: "x"}, Stage: service.StageExactName}, nil
			}}
			deps := newDeps(t)
			deps.Buildings = mock

			rec := get(deps, tc.target)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, []string{tc.want}, mock.calls)
		})
	}
}

func TestResolve_errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"not found", fmt.Errorf("service.Resolver.Resolve: %q: %w", "nope", domain.ErrNotFound), http.StatusNotFound, "not_found"},
		{"store unavailable", fmt.Errorf("service.Fetcher.Candidates: %w: %w", domain.ErrStoreUnavailable, errors.New("conn refused")), http.StatusServiceUnavailable, "store_unavailable"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			deps := newDeps(t)
			deps.Locations = &mockResolver[domain.Location]{resolve: func(context.Context, string) (service.Resolution[domain.Location], error) {
				return service.Resolution[domain.Location]{}, tc.err
			}}

			rec := get(deps, "/locations/nope")

			require.Equal(t, tc.wantCode, rec.Code)
			assert.Empty(t, rec.Header().Get("X-Resolved-By"))
			body := decode[handler.ErrorResponse](t, rec)
			assert.Equal(t, tc.wantBody, body.Error.Code)
		})
	}
}

func TestResolve_notFoundMessageNamesKind(t *testing.T) {
	deps := newDeps(t)
	deps.Maintenance = &mockResolver[domain.MaintenanceLog]{resolve: func(context.Context, string) (service.Resolution[domain.MaintenanceLog], error) {
		return service.Resolution[domain.MaintenanceLog]{}, domain.ErrNotFound
	}}

	rec := get(deps, "/maintenance/oil-change")

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "maintenance not found", decode[handler.ErrorResponse](t, rec).Error.Message)
}

func TestResolve_onlyGET(t *testing.T) {
	deps := newDeps(t)

	rec := serve(deps, newRequest(http.MethodPost, "/equipment/big-red"))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
