package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pkordes/farm-logbook/backend/internal/domain"
	"github.com/pkordes/farm-logbook/backend/internal/repo"
	"github.com/pkordes/farm-logbook/backend/migrations"
)

// Harness is a migrated, empty record store plus a way to seed it.
type Harness struct {
	Name  string
	Store repo.Store
	// exec runs a write statement with @named arguments.
	exec func(ctx context.Context, q string, args map[string]any) error
}

// NewSQLiteHarness returns a migrated SQLite store in a fresh temp directory.
func NewSQLiteHarness(t *testing.T) Harness {
	t.Helper()
	return SQLiteHarnessAt(t, filepath.Join(t.TempDir(), "farm.db"))
}

// SQLiteHarnessAt opens, and migrates if needed, the SQLite database at path.
// Use it to seed a database file that another component also opens.
func SQLiteHarnessAt(t *testing.T, path string) Harness {
	t.Helper()

	st, err := repo.OpenSQLite(path)
	if err != nil {
		t.Fatalf("testutil.SQLiteHarnessAt: open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	if _, err := migrations.Up(context.Background(), st.DB(), migrations.DriverSQLite); err != nil {
		t.Fatalf("testutil.SQLiteHarnessAt: migrate: %v", err)
	}

	return Harness{
		Name:  "sqlite",
		Store: st,
		exec: func(ctx context.Context, q string, args map[string]any) error {
			named := make([]any, 0, len(args))
			for k, v := range args {
				named = append(named, sql.Named(k, sqliteValue(v)))
			}
			_, err := st.DB().ExecContext(ctx, q, named...)
			return err
		},
	}
}

// NewPostgresHarness returns a store over a transaction on the
// TEST_DATABASE_URL database. The transaction is rolled back when the test
// finishes. The schema must already be migrated (see repo TestMain).
func NewPostgresHarness(t *testing.T) Harness {
	t.Helper()
	pool := NewPool(t)

	tx, err := pool.Begin(context.Background())
	if err != nil {
		t.Fatalf("testutil.NewPostgresHarness: begin: %v", err)
	}
	t.Cleanup(func() { _ = tx.Rollback(context.Background()) })

	return Harness{
		Name:  "postgres",
		Store: repo.NewPgStore(tx),
		exec: func(ctx context.Context, q string, args map[string]any) error {
			_, err := tx.Exec(ctx, q, pgx.NamedArgs(args))
			return err
		},
	}
}

// Harnesses returns the SQLite harness, plus the Postgres harness when
// TEST_DATABASE_URL is set.
func Harnesses(t *testing.T) []Harness {
	t.Helper()
	hs := []Harness{NewSQLiteHarness(t)}
	if hasDSN() {
		hs = append(hs, NewPostgresHarness(t))
	}
	return hs
}

// sqliteValue converts ids to the text form SQLite stores them in.
func sqliteValue(v any) any {
	switch x := v.(type) {
	case uuid.UUID:
		return x.String()
	case *uuid.UUID:
		if x == nil {
			return nil
		}
		return x.String()
	}
	return v
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func newID(id uuid.UUID) uuid.UUID {
	if id == uuid.Nil {
		return uuid.New()
	}
	return id
}

func (h Harness) mustExec(t *testing.T, q string, args map[string]any) {
	t.Helper()
	if err := h.exec(context.Background(), q, args); err != nil {
		t.Fatalf("testutil: %s seed: %v", h.Name, err)
	}
}

// AddLocation inserts l, assigning an id when l.ID is zero.
func (h Harness) AddLocation(t *testing.T, l domain.Location) domain.Location {
	t.Helper()
	l.ID = newID(l.ID)
	h.mustExec(t, `
		INSERT INTO locations (id, name, code, is_primary, city, province, notes)
		VALUES (@id, @name, @code, @is_primary, @city, @province, @notes)`,
		map[string]any{
			"id": l.ID, "name": l.Name, "code": nullable(l.Code), "is_primary": l.IsPrimary,
			"city": nullable(l.City), "province": nullable(l.Province), "notes": nullable(l.Notes),
		})
	return l
}

// AddBuilding inserts b, assigning an id when b.ID is zero.
func (h Harness) AddBuilding(t *testing.T, b domain.Building) domain.Building {
	t.Helper()
	b.ID = newID(b.ID)
	h.mustExec(t, `
		INSERT INTO buildings (id, location_id, name, code, type, description)
		VALUES (@id, @location_id, @name, @code, @type, @description)`,
		map[string]any{
			"id": b.ID, "location_id": b.LocationID, "name": b.Name, "code": nullable(b.Code),
			"type": nullable(b.Type), "description": nullable(b.Description),
		})
	return b
}

// AddEquipment inserts e, assigning an id when e.ID is zero. An empty
// nickname is stored as NULL.
func (h Harness) AddEquipment(t *testing.T, e domain.Equipment) domain.Equipment {
	t.Helper()
	e.ID = newID(e.ID)
	var year any
	if e.Year != 0 {
		year = e.Year
	}
	h.mustExec(t, `
		INSERT INTO equipment (id, location_id, building_id, nickname, unit_number, category,
			make, model, serial_number, vin_sn, year, active)
		VALUES (@id, @location_id, @building_id, @nickname, @unit_number, @category,
			@make, @model, @serial_number, @vin_sn, @year, @active)`,
		map[string]any{
			"id": e.ID, "location_id": e.LocationID, "building_id": e.BuildingID,
			"nickname": nullable(e.Nickname), "unit_number": nullable(e.UnitNumber),
			"category": nullable(e.Category), "make": nullable(e.Make), "model": nullable(e.Model),
			"serial_number": nullable(e.SerialNumber), "vin_sn": nullable(e.VINSN),
			"year": year, "active": e.Active,
		})
	return e
}

// AddMaintenanceLog inserts m, assigning an id when m.ID is zero.
func (h Harness) AddMaintenanceLog(t *testing.T, m domain.MaintenanceLog) domain.MaintenanceLog {
	t.Helper()
	m.ID = newID(m.ID)
	var date any
	if m.MaintenanceDate != "" {
		date = m.MaintenanceDate
	}
	h.mustExec(t, `
		INSERT INTO maintenance_logs (id, equipment_id, title, description, status, maintenance_date)
		VALUES (@id, @equipment_id, @title, @description, @status, @maintenance_date)`,
		map[string]any{
			"id": m.ID, "equipment_id": m.EquipmentID, "title": m.Title,
			"description": nullable(m.Description), "status": nullable(m.Status),
			"maintenance_date": date,
		})
	return m
}
