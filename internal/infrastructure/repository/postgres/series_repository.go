package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/openfantasy/dota-fantasy/internal/domain/match"
)

const seriesColumns = `id, external_id, format, competition_id, tour_id, created_at`

type SeriesRepository struct {
	db *sqlx.DB
}

func NewSeriesRepository(db *sqlx.DB) *SeriesRepository {
	return &SeriesRepository{db: db}
}

func (r *SeriesRepository) GetByExternalID(ctx context.Context, externalID int64) (match.Series, bool, error) {
	var row seriesTableModel
	err := r.db.GetContext(ctx, &row, `SELECT `+seriesColumns+` FROM series WHERE external_id = $1`, externalID)
	if err != nil {
		if isNotFound(err) {
			return match.Series{}, false, nil
		}
		return match.Series{}, false, fmt.Errorf("select series by external id: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *SeriesRepository) GetByID(ctx context.Context, id int64) (match.Series, bool, error) {
	var row seriesTableModel
	err := r.db.GetContext(ctx, &row, `SELECT `+seriesColumns+` FROM series WHERE id = $1`, id)
	if err != nil {
		if isNotFound(err) {
			return match.Series{}, false, nil
		}
		return match.Series{}, false, fmt.Errorf("select series by id: %w", err)
	}
	return row.toDomain(), true, nil
}

// Create keeps the first-writer-wins invariant: on an external-id conflict
// the already stored row is returned untouched.
func (r *SeriesRepository) Create(ctx context.Context, item match.Series) (match.Series, error) {
	var row seriesTableModel
	err := r.db.GetContext(ctx, &row, `
		INSERT INTO series (external_id, format, competition_id, tour_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (external_id) DO NOTHING
		RETURNING `+seriesColumns,
		item.ExternalID, string(item.Format), nullInt64(item.CompetitionID), nullInt64(item.TourID),
	)
	if err != nil {
		if isNotFound(err) {
			existing, _, getErr := r.GetByExternalID(ctx, item.ExternalID)
			if getErr != nil {
				return match.Series{}, getErr
			}
			return existing, nil
		}
		return match.Series{}, fmt.Errorf("insert series: %w", err)
	}
	return row.toDomain(), nil
}
