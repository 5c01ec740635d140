package domain

import "github.com/google/uuid"

// Location is a farm site. Buildings and equipment are placed at a location.
type Location struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code,omitempty"`
	IsPrimary bool      `json:"is_primary"`
	City      string    `json:"city,omitempty"`
	Province  string    `json:"province,omitempty"`
	Notes     string    `json:"notes,omitempty"`
}

func (l Location) EntityID() uuid.UUID { return l.ID }
func (l Location) DisplayName() string { return l.Name }
func (Location) Kind() Kind            { return KindLocation }

// Place returns "City, Province", omitting whichever part is empty.
func (l Location) Place() string {
	return joinNonEmpty(", ", l.City, l.Province)
}

// Headline returns the location name.
func (l Location) Headline() string { return firstNonEmpty(l.Name, "Location") }

// Detail returns "code | city, province", skipping empty parts.
func (l Location) Detail() string {
	return joinNonEmpty(" | ", l.Code, l.Place())
}
