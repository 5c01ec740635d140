package repo

import (
	"context"
	"database/sql"
	"fmt"

	// Register the "sqlite" driver.
	_ "modernc.org/sqlite"
)

// SQLiteStore is the SQLite implementation of Store, used for single-user
// local deployments, the CLI and tests.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens the SQLite database file at path. The caller must call
// Close on the returned store. Pass ":memory:" for a private in-memory
// database (limited to one connection).
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("repo.OpenSQLite: open %s: %w", path, err)
	}
	if path == ":memory:" {
		// Every new connection would get its own empty database.
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		// WAL lets the API serve reads while the CLI migrates or imports.
		`PRAGMA journal_mode=WAL`,
		`PRAGMA busy_timeout=5000`,
		`PRAGMA synchronous=NORMAL`,
		`PRAGMA foreign_keys=ON`,
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("repo.OpenSQLite: %s: %w", p, err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

// DB returns the underlying handle, for migrations and seeding.
func (s *SQLiteStore) DB() *sql.DB { return s.db }

// Close closes the database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Driver() string { return sqliteDialect.name }

func (s *SQLiteStore) dialect() dialect { return sqliteDialect }

func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("repo.SQLiteStore.Ping: %w", err)
	}
	return nil
}

func (s *SQLiteStore) each(ctx context.Context, st statement, fn func(scanner) error) error {
	args := make([]any, 0, len(st.args))
	for _, a := range st.args {
		args = append(args, sql.Named(a.name, a.value))
	}

	rows, err := s.db.QueryContext(ctx, st.sql, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows: %w", err)
	}
	return nil
}
