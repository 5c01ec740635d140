package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgStore is the Postgres implementation of Store.
type PgStore struct {
	db db
}

var _ Store = (*PgStore)(nil)

// NewPgStore constructs a Store backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewPgStore(db db) *PgStore {
	return &PgStore{db: db}
}

func (s *PgStore) Driver() string { return postgresDialect.name }

func (s *PgStore) dialect() dialect { return postgresDialect }

// Ping runs a trivial query. pgx.Tx has no Ping method, so this works for
// pools and transactions alike.
func (s *PgStore) Ping(ctx context.Context) error {
	var one int
	if err := s.db.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("repo.PgStore.Ping: %w", err)
	}
	return nil
}

func (s *PgStore) each(ctx context.Context, st statement, fn func(scanner) error) error {
	args := pgx.NamedArgs{}
	for _, a := range st.args {
		args[a.name] = a.value
	}

	rows, err := s.db.Query(ctx, st.sql, args)
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
