package domain

import "github.com/google/uuid"

// Building is a structure at a location.
// LocationName and LocationCode are joined from the parent location at read
// time and are empty when the building has no location.
type Building struct {
	ID           uuid.UUID  `json:"id"`
	LocationID   *uuid.UUID `json:"location_id,omitempty"`
	Name         string     `json:"name"`
	Code         string     `json:"code,omitempty"`
	Type         string     `json:"type,omitempty"`
	Description  string     `json:"description,omitempty"`
	LocationName string     `json:"location_name,omitempty"`
	LocationCode string     `json:"location_code,omitempty"`
}

func (b Building) EntityID() uuid.UUID { return b.ID }
func (b Building) DisplayName() string { return b.Name }
func (Building) Kind() Kind            { return KindBuilding }

// Headline returns the building name.
func (b Building) Headline() string { return firstNonEmpty(b.Name, "Building") }

// Detail returns "code | type | location", skipping empty parts.
func (b Building) Detail() string {
	return joinNonEmpty(" | ", b.Code, b.Type, b.LocationName)
}
