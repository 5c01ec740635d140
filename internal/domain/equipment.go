package domain

import "github.com/google/uuid"

// Equipment is a tracked machine or vehicle.
// Nickname is the display name but is optional; equipment saved without one
// is addressed by id.
type Equipment struct {
	ID           uuid.UUID  `json:"id"`
	LocationID   *uuid.UUID `json:"location_id,omitempty"`
	BuildingID   *uuid.UUID `json:"building_id,omitempty"`
	Nickname     string     `json:"nickname,omitempty"`
	UnitNumber   string     `json:"unit_number,omitempty"`
	Category     string     `json:"category,omitempty"`
	Make         string     `json:"make,omitempty"`
	Model        string     `json:"model,omitempty"`
	SerialNumber string     `json:"serial_number,omitempty"`
	VINSN        string     `json:"vin_sn,omitempty"`
	Year         int        `json:"year,omitempty"` // 0 when unknown
	Active       bool       `json:"active"`
}

func (e Equipment) EntityID() uuid.UUID { return e.ID }
func (e Equipment) DisplayName() string { return e.Nickname }
func (Equipment) Kind() Kind            { return KindEquipment }

// Unit returns "Unit <n>", or "" when the unit number is not set.
func (e Equipment) Unit() string {
	return unitLabel(e.UnitNumber)
}

// Label returns the picker label used when choosing equipment for a
// maintenance log: "Unit 7 - Big Red", either part alone, or
// "Unknown equipment" when both are empty.
func (e Equipment) Label() string {
	if l := joinNonEmpty(" - ", e.Unit(), e.Nickname); l != "" {
		return l
	}
	return "Unknown equipment"
}

// Headline returns the nickname, falling back to the model and then to
// "Equipment".
func (e Equipment) Headline() string {
	return firstNonEmpty(e.Nickname, e.Model, "Equipment")
}

// Detail returns "category | make | model | Unit n", skipping empty parts.
func (e Equipment) Detail() string {
	return joinNonEmpty(" | ", e.Category, e.Make, e.Model, e.Unit())
}

// EquipmentDetail is a piece of equipment together with its maintenance
// history, newest first.
type EquipmentDetail struct {
	Equipment
	Maintenance []MaintenanceLog `json:"maintenance"`
}
