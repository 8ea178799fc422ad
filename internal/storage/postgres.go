package storage

import (
	"context"
	"errors"

	"github.com/KhYulian/Mapty-App/internal/db"

	"github.com/jackc/pgx/v5"
)

type PostgresSlot struct {
	db  db.Querier
	key string
}

func NewPostgresSlot(db db.Querier, key string) *PostgresSlot {
	return &PostgresSlot{db: db, key: key}
}

func (s *PostgresSlot) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS snapshots (
			key        TEXT PRIMARY KEY,
			payload    BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	return err
}

func (s *PostgresSlot) Get(ctx context.Context) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRow(ctx, `SELECT payload FROM snapshots WHERE key=$1`, s.key).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *PostgresSlot) Set(ctx context.Context, payload []byte) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO snapshots (key, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET payload=EXCLUDED.payload, updated_at=EXCLUDED.updated_at
	`, s.key, payload)
	return err
}

func (s *PostgresSlot) Delete(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DELETE FROM snapshots WHERE key=$1`, s.key)
	return err
}
