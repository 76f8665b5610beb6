package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type IgnoreRepository struct {
	db *sqlx.DB
}

func NewIgnoreRepository(db *sqlx.DB) *IgnoreRepository {
	return &IgnoreRepository{db: db}
}

func (r *IgnoreRepository) IsIgnored(ctx context.Context, externalID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM ignored_matches WHERE external_id = $1)`, externalID)
	if err != nil {
		return false, fmt.Errorf("select denylist entry: %w", err)
	}
	return exists, nil
}

func (r *IgnoreRepository) Add(ctx context.Context, externalID int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ignored_matches (external_id) VALUES ($1)
		ON CONFLICT (external_id) DO NOTHING`, externalID)
	if err != nil {
		return fmt.Errorf("insert denylist entry: %w", err)
	}
	return nil
}
