package domain

import "github.com/google/uuid"

// MaintenanceLog is a service entry recorded against a piece of equipment.
// EquipmentNickname and EquipmentUnitNumber are joined from the equipment row.
// MaintenanceDate is a "2006-01-02" formatted date, empty when not recorded.
type MaintenanceLog struct {
	ID                  uuid.UUID `json:"id"`
	EquipmentID         uuid.UUID `json:"equipment_id"`
	Title               string    `json:"title"`
	Description         string    `json:"description,omitempty"`
	Status              string    `json:"status,omitempty"`
	MaintenanceDate     string    `json:"maintenance_date,omitempty"`
	EquipmentNickname   string    `json:"equipment_nickname,omitempty"`
	EquipmentUnitNumber string    `json:"equipment_unit_number,omitempty"`
}

func (m MaintenanceLog) EntityID() uuid.UUID { return m.ID }
func (m MaintenanceLog) DisplayName() string { return m.Title }
func (MaintenanceLog) Kind() Kind            { return KindMaintenance }

// Headline returns the log title.
func (m MaintenanceLog) Headline() string { return firstNonEmpty(m.Title, "Maintenance") }

// Detail names the equipment the log belongs to: its unit number when set,
// else its nickname.
func (m MaintenanceLog) Detail() string {
	return firstNonEmpty(unitLabel(m.EquipmentUnitNumber), m.EquipmentNickname, "Maintenance")
}
