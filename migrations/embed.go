// Package migrations embeds the SQL migration files for both supported store
// drivers and applies them with the goose provider API.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

// FS holds the migration files for every driver, one directory per driver.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS

// Driver names match config.StoreDriver values.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// NewProvider returns a goose provider for the named driver over db.
func NewProvider(db *sql.DB, driver string) (*goose.Provider, error) {
	var dialect goose.Dialect
	switch driver {
	case DriverPostgres:
		dialect = goose.DialectPostgres
	case DriverSQLite:
		dialect = goose.DialectSQLite3
	default:
		return nil, fmt.Errorf("migrations.NewProvider: unsupported driver %q", driver)
	}

	sub, err := fs.Sub(FS, driver)
	if err != nil {
		return nil, fmt.Errorf("migrations.NewProvider: %w", err)
	}

	p, err := goose.NewProvider(dialect, db, sub)
	if err != nil {
		return nil, fmt.Errorf("migrations.NewProvider: %w", err)
	}
	return p, nil
}

// Up applies every pending migration and returns how many were applied.
func Up(ctx context.Context, db *sql.DB, driver string) (int, error) {
	p, err := NewProvider(db, driver)
	if err != nil {
		return 0, err
	}
	results, err := p.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("migrations.Up: %w", err)
	}
	return len(results), nil
}
