package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/openfantasy/dota-fantasy/internal/domain/competition"
)

type competitionTableModel struct {
	ID           int64         `db:"id"`
	ExternalID   int64         `db:"external_id"`
	Name         string        `db:"name"`
	Status       string        `db:"status"`
	ActiveTourID sql.NullInt64 `db:"active_tour_id"`
	CreatedAt    time.Time     `db:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at"`
}

func (m competitionTableModel) toDomain() competition.Competition {
	return competition.Competition{
		ID:           m.ID,
		ExternalID:   m.ExternalID,
		Name:         m.Name,
		Status:       competition.Status(m.Status),
		ActiveTourID: int64Ptr(m.ActiveTourID),
	}
}

type tourTableModel struct {
	ID             int64     `db:"id"`
	CompetitionID  int64     `db:"competition_id"`
	Number         int       `db:"number"`
	Status         string    `db:"status"`
	StartAt        time.Time `db:"start_at"`
	EndAt          time.Time `db:"end_at"`
	EditingStartAt time.Time `db:"editing_start_at"`
	EditingEndAt   time.Time `db:"editing_end_at"`
}

func (m tourTableModel) toDomain() competition.Tour {
	return competition.Tour{
		ID:             m.ID,
		CompetitionID:  m.CompetitionID,
		Number:         m.Number,
		Status:         competition.TourStatus(m.Status),
		StartAt:        m.StartAt,
		EndAt:          m.EndAt,
		EditingStartAt: m.EditingStartAt,
		EditingEndAt:   m.EditingEndAt,
	}
}

const competitionColumns = `id, external_id, name, status, active_tour_id, created_at, updated_at`
const tourColumns = `id, competition_id, number, status, start_at, end_at, editing_start_at, editing_end_at`

type CompetitionRepository struct {
	db *sqlx.DB
}

func NewCompetitionRepository(db *sqlx.DB) *CompetitionRepository {
	return &CompetitionRepository{db: db}
}

func (r *CompetitionRepository) GetByExternalID(ctx context.Context, externalID int64) (competition.Competition, bool, error) {
	var row competitionTableModel
	err := r.db.GetContext(ctx, &row, `SELECT `+competitionColumns+` FROM competitions WHERE external_id = $1`, externalID)
	if err != nil {
		if isNotFound(err) {
			return competition.Competition{}, false, nil
		}
		return competition.Competition{}, false, fmt.Errorf("select competition by external id: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *CompetitionRepository) GetByID(ctx context.Context, id int64) (competition.Competition, bool, error) {
	var row competitionTableModel
	err := r.db.GetContext(ctx, &row, `SELECT `+competitionColumns+` FROM competitions WHERE id = $1`, id)
	if err != nil {
		if isNotFound(err) {
			return competition.Competition{}, false, nil
		}
		return competition.Competition{}, false, fmt.Errorf("select competition by id: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *CompetitionRepository) ListToursByCompetition(ctx context.Context, competitionID int64) ([]competition.Tour, error) {
	var rows []tourTableModel
	err := r.db.SelectContext(ctx, &rows, `SELECT `+tourColumns+` FROM tours WHERE competition_id = $1 ORDER BY id`, competitionID)
	if err != nil {
		return nil, fmt.Errorf("select tours by competition: %w", err)
	}
	out := make([]competition.Tour, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *CompetitionRepository) GetTourByID(ctx context.Context, tourID int64) (competition.Tour, bool, error) {
	var row tourTableModel
	err := r.db.GetContext(ctx, &row, `SELECT `+tourColumns+` FROM tours WHERE id = $1`, tourID)
	if err != nil {
		if isNotFound(err) {
			return competition.Tour{}, false, nil
		}
		return competition.Tour{}, false, fmt.Errorf("select tour by id: %w", err)
	}
	return row.toDomain(), true, nil
}
