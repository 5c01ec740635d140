package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/farm-logbook/backend/internal/domain"
	"github.com/pkordes/farm-logbook/backend/internal/repo"
	"github.com/pkordes/farm-logbook/backend/internal/service"
)

func TestHistory_Detail(t *testing.T) {
	eq := domain.Equipment{ID: uuid.New(), Nickname: "Big Red"}
	belt := domain.MaintenanceLog{ID: uuid.New(), EquipmentID: eq.ID, Title: "Belt", MaintenanceDate: "2025-06-15"}
	oil := domain.MaintenanceLog{ID: uuid.New(), EquipmentID: eq.ID, Title: "Oil change", MaintenanceDate: "2025-04-01"}
	m := &mockReader[domain.MaintenanceLog]{find: returns(belt, oil)}

	got, err := service.NewHistory(m, service.DefaultLimits()).Detail(context.Background(), eq)

	require.NoError(t, err)
	assert.Equal(t, eq, got.Equipment)
	assert.Equal(t, []domain.MaintenanceLog{belt, oil}, got.Maintenance)

	require.Len(t, m.queries, 1)
	q := m.queries[0]
	assert.Equal(t, []repo.Predicate{repo.RefEquals(repo.FieldEquipmentID, eq.ID)}, q.AnyOf)
	assert.Equal(t, repo.OrderByRecent, q.Order)
	assert.Equal(t, service.DefaultLimits().Scan, q.Limit)
}

func TestHistory_Detail_NoLogs(t *testing.T) {
	eq := domain.Equipment{ID: uuid.New()}
	m := &mockReader[domain.MaintenanceLog]{find: returns[domain.MaintenanceLog]()}

	got, err := service.NewHistory(m, service.Limits{Scan: 3}).Detail(context.Background(), eq)

	require.NoError(t, err)
	assert.NotNil(t, got.Maintenance)
	assert.Empty(t, got.Maintenance)
	assert.Equal(t, 3, m.queries[0].Limit)
}

func TestHistory_Detail_StoreError(t *testing.T) {
	boom := errors.New("connection refused")
	m := &mockReader[domain.MaintenanceLog]{find: failing[domain.MaintenanceLog](boom)}

	_, err := service.NewHistory(m, service.DefaultLimits()).Detail(context.Background(), domain.Equipment{ID: uuid.New()})

	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.ErrorIs(t, err, boom)
}

// The resolved equipment is what the history is keyed on, so a slug
// resolves to the record and then to its logs.
func TestHistory_AfterResolve(t *testing.T) {
	eq := domain.Equipment{ID: uuid.New(), Nickname: "Big Red"}
	eqs := &mockReader[domain.Equipment]{find: returns(eq)}
	oil := domain.MaintenanceLog{ID: uuid.New(), EquipmentID: eq.ID, Title: "Oil change"}
	logs := &mockReader[domain.MaintenanceLog]{find: returns(oil)}

	res, err := service.NewResolver(service.NewFetcher[domain.Equipment](eqs, service.DefaultLimits())).
		Resolve(context.Background(), "big-red")
	require.NoError(t, err)

	got, err := service.NewHistory(logs, service.DefaultLimits()).Detail(context.Background(), res.Record)
	require.NoError(t, err)
	assert.Equal(t, "Big Red", got.DisplayName())
	assert.Equal(t, []domain.MaintenanceLog{oil}, got.Maintenance)
	assert.Equal(t, eq.ID, logs.queries[0].AnyOf[0].ID)
}
