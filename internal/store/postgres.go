package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/rpgo/payoff-planner/internal/domain"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS scenarios (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  kind TEXT NOT NULL,
  created_at TIMESTAMPTZ NOT NULL,
  snapshot JSONB NOT NULL
);
`

// PostgresStore keeps snapshots in a single scenarios table
type PostgresStore struct {
	db   *sql.DB
	opts Options
}

// OpenPostgresStore opens a lib/pq connection pool for dsn and verifies it
func OpenPostgresStore(ctx context.Context, dsn string, opts Options) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to reach postgres: %w", err)
	}
	return NewPostgresStore(db, opts), nil
}

// NewPostgresStore wraps an existing pool
func NewPostgresStore(db *sql.DB, opts Options) *PostgresStore {
	return &PostgresStore{db: db, opts: opts.withDefaults()}
}

// Migrate creates the scenarios table if it does not exist
func (p *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to migrate scenarios table: %w", err)
	}
	return nil
}

// Save inserts a new snapshot row
func (p *PostgresStore) Save(ctx context.Context, name string, params domain.ScenarioParams) (string, error) {
	snap, err := newSnapshot(p.opts, name, params)
	if err != nil {
		return "", err
	}
	data, err := encodeJSON(snap)
	if err != nil {
		return "", err
	}
	_, err = p.db.ExecContext(ctx,
		`INSERT INTO scenarios (id, name, kind, created_at, snapshot) VALUES ($1, $2, $3, $4, $5)`,
		snap.ID, snap.Name, string(snap.Params.Kind), snap.CreatedAt, data)
	if err != nil {
		return "", fmt.Errorf("failed to save scenario %s: %w", snap.ID, err)
	}
	return snap.ID, nil
}

// Load selects and decodes one snapshot
func (p *PostgresStore) Load(ctx context.Context, id string) (domain.Scenario, error) {
	var data []byte
	err := p.db.QueryRowContext(ctx, `SELECT snapshot FROM scenarios WHERE id = $1`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Scenario{}, ErrNotFound
	}
	if err != nil {
		return domain.Scenario{}, fmt.Errorf("failed to load scenario %s: %w", id, err)
	}
	return decodeJSON(id, data)
}

// List returns all IDs ordered by id
func (p *PostgresStore) List(ctx context.Context) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT id FROM scenarios ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Delete removes one row
func (p *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM scenarios WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete scenario %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the pool
func (p *PostgresStore) Close() error {
	return p.db.Close()
}
