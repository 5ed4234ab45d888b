package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

type PostgresStorage struct {
	db DBTX
}

func NewPostgresStorage(db DBTX) *PostgresStorage {
	return &PostgresStorage{db: db}
}

func (s *PostgresStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(ctx, `SELECT value FROM local_storage WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *PostgresStorage) SetItem(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO local_storage (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
	_, err := s.db.Exec(ctx, query, key, value)
	return err
}
