// Package domain contains the core record types for the farm logbook.
// This package depends only on google/uuid and is imported by every other
// internal package (repo, service, handler).
package domain

import (
	"fmt"
	"strings"
)

// Kind names a record collection.
type Kind string

const (
	KindEquipment   Kind = "equipment"
	KindBuilding    Kind = "building"
	KindLocation    Kind = "location"
	KindMaintenance Kind = "maintenance"
)

// SearchOrder is the order in which collections are queried and concatenated
// by cross-entity search.
var SearchOrder = []Kind{KindEquipment, KindMaintenance, KindBuilding, KindLocation}

// ParseKind maps a user-supplied kind name to a Kind.
// Plural forms ("buildings") are accepted. Returns ErrValidation otherwise.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s"))
	switch k {
	case KindEquipment, KindBuilding, KindLocation, KindMaintenance:
		return k, nil
	}
	return "", fmt.Errorf("%w: unknown record kind %q", ErrValidation, s)
}

// HasCategory reports whether records of this kind carry a category attribute.
// Category filters only ever apply to such records.
func (k Kind) HasCategory() bool {
	return k == KindEquipment
}
