package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/openfantasy/dota-fantasy/internal/domain/team"
)

type teamTableModel struct {
	ID         int64     `db:"id"`
	ExternalID int64     `db:"external_id"`
	Name       string    `db:"name"`
	CreatedAt  time.Time `db:"created_at"`
}

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetByExternalID(ctx context.Context, externalID int64) (team.Team, bool, error) {
	var row teamTableModel
	err := r.db.GetContext(ctx, &row, `SELECT id, external_id, name, created_at FROM teams WHERE external_id = $1`, externalID)
	if err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("select team by external id: %w", err)
	}
	return team.Team{ID: row.ID, ExternalID: row.ExternalID, Name: row.Name}, true, nil
}
