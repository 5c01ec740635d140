package domain_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/farm-logbook/backend/internal/domain"
)

func TestParseKind(t *testing.T) {
	for in, want := range map[string]domain.Kind{
		"equipment":   domain.KindEquipment,
		"Buildings":   domain.KindBuilding,
		" location ":  domain.KindLocation,
		"maintenance": domain.KindMaintenance,
	} {
		got, err := domain.ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseKind_Unknown(t *testing.T) {
	_, err := domain.ParseKind("tractors")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestKind_HasCategory(t *testing.T) {
	assert.True(t, domain.KindEquipment.HasCategory())
	assert.False(t, domain.KindMaintenance.HasCategory())
	assert.False(t, domain.KindBuilding.HasCategory())
	assert.False(t, domain.KindLocation.HasCategory())
}

func TestEquipment_Label(t *testing.T) {
	assert.Equal(t, "Unit 7 - Big Red", domain.Equipment{UnitNumber: "7", Nickname: "Big Red"}.Label())
	assert.Equal(t, "Unit 7", domain.Equipment{UnitNumber: " 7 "}.Label())
	assert.Equal(t, "Big Red", domain.Equipment{Nickname: "Big Red"}.Label())
	assert.Equal(t, "Unknown equipment", domain.Equipment{}.Label())
}

func TestLocation_Place(t *testing.T) {
	assert.Equal(t, "Brandon, MB", domain.Location{City: "Brandon", Province: "MB"}.Place())
	assert.Equal(t, "MB", domain.Location{Province: "MB"}.Place())
	assert.Equal(t, "", domain.Location{}.Place())
}

func TestSuggestion_LinkKey(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, "north-barn", domain.Suggestion{ID: id, Slug: "north-barn"}.LinkKey())
	assert.Equal(t, id.String(), domain.Suggestion{ID: id}.LinkKey())
}

func TestEntity_Kinds(t *testing.T) {
	entities := []domain.Entity{
		domain.Equipment{}, domain.Building{}, domain.Location{}, domain.MaintenanceLog{},
	}
	var kinds []domain.Kind
	for _, e := range entities {
		kinds = append(kinds, e.Kind())
	}
	assert.ElementsMatch(t, domain.SearchOrder, kinds)
}

func TestEquipment_Headline(t *testing.T) {
	assert.Equal(t, "Big Red", domain.Equipment{Nickname: "Big Red", Model: "8R"}.Headline())
	assert.Equal(t, "8R", domain.Equipment{Nickname: "  ", Model: "8R"}.Headline())
	assert.Equal(t, "Equipment", domain.Equipment{}.Headline())
}

func TestEquipment_Detail(t *testing.T) {
	e := domain.Equipment{Category: "Tractor", Make: "Deere", UnitNumber: "7"}
	assert.Equal(t, "Tractor | Deere | Unit 7", e.Detail())
	assert.Equal(t, "", domain.Equipment{}.Detail())
}

func TestMaintenanceLog_Detail(t *testing.T) {
	assert.Equal(t, "Unit 7", domain.MaintenanceLog{EquipmentUnitNumber: "7", EquipmentNickname: "Big Red"}.Detail())
	assert.Equal(t, "Big Red", domain.MaintenanceLog{EquipmentNickname: "Big Red"}.Detail())
	assert.Equal(t, "Maintenance", domain.MaintenanceLog{}.Detail())
}

func TestBuilding_Detail(t *testing.T) {
	b := domain.Building{Name: "Shop", Code: "B2", Type: "Workshop", LocationName: "Home"}
	assert.Equal(t, "Shop", b.Headline())
	assert.Equal(t, "B2 | Workshop | Home", b.Detail())
}
