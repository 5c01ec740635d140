package domain

import "github.com/google/uuid"

// Entity is implemented by every record type the resolver and search
// services operate on.
type Entity interface {
	// EntityID returns the storage-assigned unique id.
	EntityID() uuid.UUID
	// DisplayName returns the human-facing name slugs are derived from.
	// It may be empty for records that were saved without one.
	DisplayName() string
	// Kind names the collection the record belongs to.
	Kind() Kind
	// Headline and Detail are the title and subtitle shown in search results.
	Headline() string
	Detail() string
}
