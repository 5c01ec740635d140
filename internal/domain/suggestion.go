package domain

import "github.com/google/uuid"

// Suggestion is a display projection of a record for typeahead and
// cross-entity search results.
type Suggestion struct {
	ID       uuid.UUID `json:"id"`
	Kind     Kind      `json:"kind"`
	Title    string    `json:"title"`
	Subtitle string    `json:"subtitle,omitempty"`
	// Slug is the canonical slug of the display name, or "" when the record
	// has none. Links should fall back to ID in that case.
	Slug string `json:"slug,omitempty"`
	// Category is only set for kinds where Kind.HasCategory is true.
	Category string `json:"category,omitempty"`
}

// LinkKey returns the path segment a client should use to open the record:
// the slug when there is one, the id otherwise.
func (s Suggestion) LinkKey() string {
	if s.Slug != "" {
		return s.Slug
	}
	return s.ID.String()
}
