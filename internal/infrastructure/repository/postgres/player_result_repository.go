package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/openfantasy/dota-fantasy/internal/domain/player"
)

type playerResultTableModel struct {
	PlayerID int64   `db:"player_id"`
	MatchID  int64   `db:"match_id"`
	Result   float64 `db:"result"`
}

type PlayerResultRepository struct {
	db *sqlx.DB
}

func NewPlayerResultRepository(db *sqlx.DB) *PlayerResultRepository {
	return &PlayerResultRepository{db: db}
}

func (r *PlayerResultRepository) Upsert(ctx context.Context, result player.MatchResult) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO player_match_results (player_id, match_id, result)
		VALUES ($1, $2, $3)
		ON CONFLICT (player_id, match_id) DO UPDATE SET result = EXCLUDED.result`,
		result.PlayerID, result.MatchID, result.Result,
	)
	if err != nil {
		return fmt.Errorf("upsert player match result: %w", err)
	}
	return nil
}

func (r *PlayerResultRepository) ListByPlayerAndMatches(ctx context.Context, playerID int64, matchIDs []int64) ([]player.MatchResult, error) {
	if len(matchIDs) == 0 {
		return nil, nil
	}
	var rows []playerResultTableModel
	err := r.db.SelectContext(ctx, &rows, `
		SELECT player_id, match_id, result FROM player_match_results
		WHERE player_id = $1 AND match_id = ANY($2) ORDER BY match_id`,
		playerID, pq.Array(matchIDs),
	)
	if err != nil {
		return nil, fmt.Errorf("select player match results: %w", err)
	}
	out := make([]player.MatchResult, 0, len(rows))
	for _, row := range rows {
		out = append(out, player.MatchResult{PlayerID: row.PlayerID, MatchID: row.MatchID, Result: row.Result})
	}
	return out, nil
}
