package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/openfantasy/dota-fantasy/internal/domain/match"
)

const matchColumns = `id, external_id, series_id, competition_id, tour_id, radiant_team_id, dire_team_id,
	started_at, detail_raw, results, is_filled, is_parsed, is_rated, is_saved_to_players, created_at, updated_at`

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) ExistsByExternalID(ctx context.Context, externalID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM matches WHERE external_id = $1)`, externalID)
	if err != nil {
		return false, fmt.Errorf("select match existence: %w", err)
	}
	return exists, nil
}

func (r *MatchRepository) GetByExternalID(ctx context.Context, externalID int64) (match.Match, bool, error) {
	var row matchTableModel
	err := r.db.GetContext(ctx, &row, `SELECT `+matchColumns+` FROM matches WHERE external_id = $1`, externalID)
	if err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("select match by external id: %w", err)
	}
	out, err := row.toDomain()
	if err != nil {
		return match.Match{}, false, err
	}
	return out, true, nil
}

func (r *MatchRepository) ListByExternalIDs(ctx context.Context, externalIDs []int64) ([]match.Match, error) {
	if len(externalIDs) == 0 {
		return nil, nil
	}
	var rows []matchTableModel
	err := r.db.SelectContext(ctx, &rows, `SELECT `+matchColumns+` FROM matches WHERE external_id = ANY($1) ORDER BY id`, pq.Array(externalIDs))
	if err != nil {
		return nil, fmt.Errorf("select matches by external ids: %w", err)
	}
	return mapMatchRows(rows)
}

func (r *MatchRepository) ListByIDs(ctx context.Context, ids []int64) ([]match.Match, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []matchTableModel
	err := r.db.SelectContext(ctx, &rows, `SELECT `+matchColumns+` FROM matches WHERE id = ANY($1) ORDER BY id`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("select matches by ids: %w", err)
	}
	return mapMatchRows(rows)
}

func (r *MatchRepository) ListByTour(ctx context.Context, tourID int64) ([]match.Match, error) {
	var rows []matchTableModel
	err := r.db.SelectContext(ctx, &rows, `SELECT `+matchColumns+` FROM matches WHERE tour_id = $1 ORDER BY id`, tourID)
	if err != nil {
		return nil, fmt.Errorf("select matches by tour: %w", err)
	}
	return mapMatchRows(rows)
}

// Create inserts the match; a concurrent insert of the same external id wins
// and its row is returned instead.
func (r *MatchRepository) Create(ctx context.Context, item match.Match) (match.Match, error) {
	results, err := encodeMatchResults(item.Results)
	if err != nil {
		return match.Match{}, err
	}

	var row matchTableModel
	err = r.db.GetContext(ctx, &row, `
		INSERT INTO matches (external_id, series_id, competition_id, tour_id, radiant_team_id, dire_team_id,
			started_at, detail_raw, results, is_filled, is_parsed, is_rated, is_saved_to_players)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (external_id) DO NOTHING
		RETURNING `+matchColumns,
		item.ExternalID, nullInt64(item.SeriesID), nullInt64(item.CompetitionID), nullInt64(item.TourID),
		nullInt64(item.RadiantTeamID), nullInt64(item.DireTeamID), item.StartedAt, item.DetailRaw, results,
		item.IsFilled, item.IsParsed, item.IsRated, item.IsSavedToPlayers,
	)
	if err != nil {
		if isNotFound(err) {
			existing, _, getErr := r.GetByExternalID(ctx, item.ExternalID)
			if getErr != nil {
				return match.Match{}, getErr
			}
			return existing, nil
		}
		return match.Match{}, fmt.Errorf("insert match: %w", err)
	}
	return row.toDomain()
}

func (r *MatchRepository) Update(ctx context.Context, item match.Match) error {
	results, err := encodeMatchResults(item.Results)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE matches SET
			series_id = $2, competition_id = $3, tour_id = $4, radiant_team_id = $5, dire_team_id = $6,
			started_at = $7, detail_raw = $8, results = $9,
			is_filled = $10, is_parsed = $11, is_rated = $12, is_saved_to_players = $13,
			updated_at = NOW()
		WHERE id = $1`,
		item.ID, nullInt64(item.SeriesID), nullInt64(item.CompetitionID), nullInt64(item.TourID),
		nullInt64(item.RadiantTeamID), nullInt64(item.DireTeamID), item.StartedAt, item.DetailRaw, results,
		item.IsFilled, item.IsParsed, item.IsRated, item.IsSavedToPlayers,
	)
	if err != nil {
		return fmt.Errorf("update match: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update match rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("match id=%d does not exist", item.ID)
	}
	return nil
}

func mapMatchRows(rows []matchTableModel) ([]match.Match, error) {
	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		item, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
