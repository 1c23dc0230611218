package dedup

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
)

// seenURLsSchema holds the persisted dedup set. URLs are primary keys so
// Save is idempotent across overlapping runs.
const seenURLsSchema = `
CREATE TABLE IF NOT EXISTS seen_urls (
	url        TEXT PRIMARY KEY,
	first_seen TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore persists the seen-URL set in a Postgres table, for
// deployments where multiple hosts share one dedup history.
type PostgresStore struct {
	db *sqlx.DB
}

// Open connects to Postgres and ensures the schema exists.
func Open(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if _, err := db.ExecContext(ctx, seenURLsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure seen_urls schema: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// NewPostgresStore wraps an existing connection. The schema must already
// exist.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Load returns every persisted URL.
func (s *PostgresStore) Load(ctx context.Context) ([]string, error) {
	var urls []string
	if err := s.db.SelectContext(ctx, &urls, `SELECT url FROM seen_urls ORDER BY url`); err != nil {
		return nil, fmt.Errorf("load seen urls: %w", err)
	}

	return urls, nil
}

// Save inserts any URLs not already present. Existing rows are kept so
// their first_seen timestamps survive.
func (s *PostgresStore) Save(ctx context.Context, urls []string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	const insert = `INSERT INTO seen_urls (url) VALUES ($1) ON CONFLICT (url) DO NOTHING`
	for _, u := range urls {
		if _, err := tx.ExecContext(ctx, insert, u); err != nil {
			return fmt.Errorf("insert seen url: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}

	return nil
}

// Close releases the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
