package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/openfantasy/dota-fantasy/internal/domain/player"
)

type playerTableModel struct {
	ID         int64         `db:"id"`
	ExternalID int64         `db:"external_id"`
	Nickname   string        `db:"nickname"`
	Role       string        `db:"role"`
	TeamID     sql.NullInt64 `db:"team_id"`
	Cost       int64         `db:"cost"`
	CreatedAt  time.Time     `db:"created_at"`
}

func (m playerTableModel) toDomain() player.Player {
	return player.Player{
		ID:         m.ID,
		ExternalID: m.ExternalID,
		Nickname:   m.Nickname,
		Role:       player.Role(m.Role),
		TeamID:     int64Ptr(m.TeamID),
		Cost:       m.Cost,
	}
}

const playerColumns = `id, external_id, nickname, role, team_id, cost, created_at`

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) GetByExternalID(ctx context.Context, externalID int64) (player.Player, bool, error) {
	var row playerTableModel
	err := r.db.GetContext(ctx, &row, `SELECT `+playerColumns+` FROM players WHERE external_id = $1`, externalID)
	if err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("select player by external id: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *PlayerRepository) ListByIDs(ctx context.Context, ids []int64) ([]player.Player, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []playerTableModel
	err := r.db.SelectContext(ctx, &rows, `SELECT `+playerColumns+` FROM players WHERE id = ANY($1) ORDER BY id`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("select players by ids: %w", err)
	}
	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
