package store

import (
	"context"
	"database/sql"
	"errors"
)

// PostgresStore keeps preferences in the preferences table created by the
// database migrations.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an open, migrated database.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Get implements Store.
func (s *PostgresStore) Get(ctx context.Context, owner, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE owner_id = $1 AND key = $2`, owner, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, unavailable("postgres", err)
	}
	return value, true, nil
}

const upsertPreference = `
		INSERT INTO preferences (owner_id, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (owner_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`

// Set implements Store.
func (s *PostgresStore) Set(ctx context.Context, owner, key, value string) error {
	if _, err := s.db.ExecContext(ctx, upsertPreference, owner, key, value); err != nil {
		return unavailable("postgres", err)
	}
	return nil
}

// SetMany implements Batcher inside one transaction.
func (s *PostgresStore) SetMany(ctx context.Context, owner string, values map[string]string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("postgres", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for k, v := range values {
		if _, err = tx.ExecContext(ctx, upsertPreference, owner, k, v); err != nil {
			return unavailable("postgres", err)
		}
	}
	if err = tx.Commit(); err != nil {
		return unavailable("postgres", err)
	}
	return nil
}

// Close implements Store.
func (s *PostgresStore) Close() error { return s.db.Close() }
