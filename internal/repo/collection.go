package repo

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/farm-logbook/backend/internal/domain"
)

// FieldName is the logical display-name field every collection exposes.
// It maps to nickname for equipment and title for maintenance logs.
const FieldName = "name"

// FieldEquipmentID is the maintenance log's reference to its equipment.
const FieldEquipmentID = "equipment_id"

// table describes how a collection is read. Nullable columns are
// COALESCEd in columns so scans only ever see plain Go values.
type table struct {
	kind    domain.Kind
	from    string
	columns string
	id      string
	// fields maps logical field names to SQL column expressions.
	fields map[string]string
	// recent is the newest-first ORDER BY list, empty when the collection
	// has no date.
	recent string
}

// Collection binds a table description to the record type its rows scan into.
type Collection[T domain.Entity] struct {
	table
	scan func(scanner) (T, error)
}

// Locations is the locations collection.
var Locations = &Collection[domain.Location]{
	table: table{
		kind: domain.KindLocation,
		from: "locations l",
		columns: `CAST(l.id AS TEXT), l.name, COALESCE(l.code, ''), l.is_primary,
			COALESCE(l.city, ''), COALESCE(l.province, ''), COALESCE(l.notes, '')`,
		id: "l.id",
		fields: map[string]string{
			FieldName:  "l.name",
			"code":     "l.code",
			"city":     "l.city",
			"province": "l.province",
		},
	},
	scan: scanLocation,
}

// Buildings is the buildings collection, joined to the parent location.
var Buildings = &Collection[domain.Building]{
	table: table{
		kind: domain.KindBuilding,
		from: "buildings b LEFT JOIN locations l ON l.id = b.location_id",
		columns: `CAST(b.id AS TEXT), COALESCE(CAST(b.location_id AS TEXT), ''), b.name,
			COALESCE(b.code, ''), COALESCE(b.type, ''), COALESCE(b.description, ''),
			COALESCE(l.name, ''), COALESCE(l.code, '')`,
		id: "b.id",
		fields: map[string]string{
			FieldName:       "b.name",
			"code":          "b.code",
			"type":          "b.type",
			"description":   "b.description",
			"location_name": "l.name",
		},
	},
	scan: scanBuilding,
}

// Equipment is the equipment collection. Its display name is the nickname.
var Equipment = &Collection[domain.Equipment]{
	table: table{
		kind: domain.KindEquipment,
		from: "equipment e",
		columns: `CAST(e.id AS TEXT), COALESCE(CAST(e.location_id AS TEXT), ''),
			COALESCE(CAST(e.building_id AS TEXT), ''), COALESCE(e.nickname, ''),
			COALESCE(e.unit_number, ''), COALESCE(e.category, ''), COALESCE(e.make, ''),
			COALESCE(e.model, ''), COALESCE(e.serial_number, ''), COALESCE(e.vin_sn, ''),
			COALESCE(e.year, 0), e.active`,
		id: "e.id",
		fields: map[string]string{
			FieldName:       "e.nickname",
			"unit_number":   "e.unit_number",
			"category":      "e.category",
			"make":          "e.make",
			"model":         "e.model",
			"serial_number": "e.serial_number",
		},
	},
	scan: scanEquipment,
}

// MaintenanceLogs is the maintenance log collection, joined to its
// equipment. Its display name is the title.
var MaintenanceLogs = &Collection[domain.MaintenanceLog]{
	table: table{
		kind: domain.KindMaintenance,
		from: "maintenance_logs m LEFT JOIN equipment e ON e.id = m.equipment_id",
		columns: `CAST(m.id AS TEXT), CAST(m.equipment_id AS TEXT), m.title,
			COALESCE(m.description, ''), COALESCE(m.status, ''),
			COALESCE(CAST(m.maintenance_date AS TEXT), ''),
			COALESCE(e.nickname, ''), COALESCE(e.unit_number, '')`,
		id: "m.id",
		fields: map[string]string{
			FieldName:        "m.title",
			FieldEquipmentID: "m.equipment_id",
			"description":    "m.description",
			"status":         "m.status",
		},
		// Undated logs sort after dated ones on both drivers.
		recent: "COALESCE(CAST(m.maintenance_date AS TEXT), '') DESC, m.created_at DESC",
	},
	scan: scanMaintenanceLog,
}

// scanner is satisfied by pgx.Row, pgx.Rows and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanLocation(s scanner) (domain.Location, error) {
	var (
		l  domain.Location
		id string
	)
	if err := s.Scan(&id, &l.Name, &l.Code, &l.IsPrimary, &l.City, &l.Province, &l.Notes); err != nil {
		return domain.Location{}, err
	}
	var err error
	if l.ID, err = parseID(id); err != nil {
		return domain.Location{}, err
	}
	return l, nil
}

func scanBuilding(s scanner) (domain.Building, error) {
	var (
		b              domain.Building
		id, locationID string
	)
	err := s.Scan(&id, &locationID, &b.Name, &b.Code, &b.Type, &b.Description,
		&b.LocationName, &b.LocationCode)
	if err != nil {
		return domain.Building{}, err
	}
	if b.ID, err = parseID(id); err != nil {
		return domain.Building{}, err
	}
	if b.LocationID, err = parseOptionalID(locationID); err != nil {
		return domain.Building{}, err
	}
	return b, nil
}

func scanEquipment(s scanner) (domain.Equipment, error) {
	var (
		e                          domain.Equipment
		id, locationID, buildingID string
	)
	err := s.Scan(&id, &locationID, &buildingID, &e.Nickname, &e.UnitNumber, &e.Category,
		&e.Make, &e.Model, &e.SerialNumber, &e.VINSN, &e.Year, &e.Active)
	if err != nil {
		return domain.Equipment{}, err
	}
	if e.ID, err = parseID(id); err != nil {
		return domain.Equipment{}, err
	}
	if e.LocationID, err = parseOptionalID(locationID); err != nil {
		return domain.Equipment{}, err
	}
	if e.BuildingID, err = parseOptionalID(buildingID); err != nil {
		return domain.Equipment{}, err
	}
	return e, nil
}

func scanMaintenanceLog(s scanner) (domain.MaintenanceLog, error) {
	var (
		m               domain.MaintenanceLog
		id, equipmentID string
	)
	err := s.Scan(&id, &equipmentID, &m.Title, &m.Description, &m.Status,
		&m.MaintenanceDate, &m.EquipmentNickname, &m.EquipmentUnitNumber)
	if err != nil {
		return domain.MaintenanceLog{}, err
	}
	if m.ID, err = parseID(id); err != nil {
		return domain.MaintenanceLog{}, err
	}
	if m.EquipmentID, err = parseID(equipmentID); err != nil {
		return domain.MaintenanceLog{}, err
	}
	return m, nil
}

func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse id %q: %w", s, err)
	}
	return id, nil
}

func parseOptionalID(s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := parseID(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
