package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

const schema = `
	CREATE TABLE IF NOT EXISTS client_settings (
		client_id  TEXT NOT NULL,
		key        TEXT NOT NULL,
		value      TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (client_id, key)
	)
`

type postgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore stores settings in the client_settings table.
func NewPostgresStore(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

// Migrate creates the client_settings table if it does not exist.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "create client_settings")
	}
	return nil
}

func (s *postgresStore) Get(ctx context.Context, namespace, key string) (string, error) {
	query := `
		SELECT value
		FROM client_settings
		WHERE client_id = $1 AND key = $2
	`

	var value string
	err := s.db.GetContext(ctx, &value, query, namespace, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", errors.Wrapf(err, "select setting %s", key)
	}
	return value, nil
}

func (s *postgresStore) Set(ctx context.Context, namespace, key, value string) error {
	query := `
		INSERT INTO client_settings (client_id, key, value, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (client_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`

	if _, err := s.db.ExecContext(ctx, query, namespace, key, value, time.Now()); err != nil {
		return errors.Wrapf(err, "upsert setting %s", key)
	}
	return nil
}

func (s *postgresStore) Delete(ctx context.Context, namespace, key string) error {
	query := `DELETE FROM client_settings WHERE client_id = $1 AND key = $2`

	if _, err := s.db.ExecContext(ctx, query, namespace, key); err != nil {
		return errors.Wrapf(err, "delete setting %s", key)
	}
	return nil
}

func (s *postgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *postgresStore) Close() error {
	return s.db.Close()
}
