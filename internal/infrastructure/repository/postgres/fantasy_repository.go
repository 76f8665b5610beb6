package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/openfantasy/dota-fantasy/internal/domain/fantasy"
)

type fantasyTeamTableModel struct {
	ID            int64     `db:"id"`
	UserID        int64     `db:"user_id"`
	CompetitionID int64     `db:"competition_id"`
	Name          string    `db:"name"`
	Result        float64   `db:"result"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (m fantasyTeamTableModel) toDomain() fantasy.Team {
	return fantasy.Team{
		ID:            m.ID,
		UserID:        m.UserID,
		CompetitionID: m.CompetitionID,
		Name:          m.Name,
		Result:        m.Result,
	}
}

type fantasyTeamTourTableModel struct {
	ID     int64   `db:"id"`
	TeamID int64   `db:"team_id"`
	TourID int64   `db:"tour_id"`
	Result float64 `db:"result"`
}

type fantasySlotTableModel struct {
	ID         int64   `db:"id"`
	TeamTourID int64   `db:"team_tour_id"`
	PlayerID   int64   `db:"player_id"`
	Result     float64 `db:"result"`
}

const fantasyTeamColumns = `id, user_id, competition_id, name, result, created_at, updated_at`

type FantasyRepository struct {
	db *sqlx.DB
}

func NewFantasyRepository(db *sqlx.DB) *FantasyRepository {
	return &FantasyRepository{db: db}
}

func (r *FantasyRepository) GetTeamByID(ctx context.Context, id int64) (fantasy.Team, bool, error) {
	var row fantasyTeamTableModel
	err := r.db.GetContext(ctx, &row, `SELECT `+fantasyTeamColumns+` FROM fantasy_teams WHERE id = $1`, id)
	if err != nil {
		if isNotFound(err) {
			return fantasy.Team{}, false, nil
		}
		return fantasy.Team{}, false, fmt.Errorf("select fantasy team by id: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *FantasyRepository) ListTeamsByCompetition(ctx context.Context, competitionID int64) ([]fantasy.Team, error) {
	var rows []fantasyTeamTableModel
	err := r.db.SelectContext(ctx, &rows, `SELECT `+fantasyTeamColumns+` FROM fantasy_teams WHERE competition_id = $1 ORDER BY id`, competitionID)
	if err != nil {
		return nil, fmt.Errorf("select fantasy teams by competition: %w", err)
	}
	out := make([]fantasy.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *FantasyRepository) ListTeamToursByTour(ctx context.Context, tourID int64) ([]fantasy.TeamTour, error) {
	return r.listTeamTours(ctx, `SELECT id, team_id, tour_id, result FROM fantasy_team_tours WHERE tour_id = $1 ORDER BY id`, tourID)
}

func (r *FantasyRepository) ListTeamToursByTeam(ctx context.Context, teamID int64) ([]fantasy.TeamTour, error) {
	return r.listTeamTours(ctx, `SELECT id, team_id, tour_id, result FROM fantasy_team_tours WHERE team_id = $1 ORDER BY id`, teamID)
}

func (r *FantasyRepository) listTeamTours(ctx context.Context, query string, arg int64) ([]fantasy.TeamTour, error) {
	var rows []fantasyTeamTourTableModel
	if err := r.db.SelectContext(ctx, &rows, query, arg); err != nil {
		return nil, fmt.Errorf("select fantasy team tours: %w", err)
	}
	out := make([]fantasy.TeamTour, 0, len(rows))
	for _, row := range rows {
		out = append(out, fantasy.TeamTour{ID: row.ID, TeamID: row.TeamID, TourID: row.TourID, Result: row.Result})
	}
	return out, nil
}

func (r *FantasyRepository) ListSlotsByTeamTour(ctx context.Context, teamTourID int64) ([]fantasy.PlayerSlot, error) {
	var rows []fantasySlotTableModel
	err := r.db.SelectContext(ctx, &rows, `SELECT id, team_tour_id, player_id, result FROM fantasy_player_slots WHERE team_tour_id = $1 ORDER BY id`, teamTourID)
	if err != nil {
		return nil, fmt.Errorf("select fantasy player slots: %w", err)
	}
	out := make([]fantasy.PlayerSlot, 0, len(rows))
	for _, row := range rows {
		out = append(out, fantasy.PlayerSlot{ID: row.ID, TeamTourID: row.TeamTourID, PlayerID: row.PlayerID, Result: row.Result})
	}
	return out, nil
}

func (r *FantasyRepository) UpdateSlotResult(ctx context.Context, slotID int64, result float64) error {
	return r.updateResult(ctx, `UPDATE fantasy_player_slots SET result = $2 WHERE id = $1`, "fantasy player slot", slotID, result)
}

func (r *FantasyRepository) UpdateTeamTourResult(ctx context.Context, teamTourID int64, result float64) error {
	return r.updateResult(ctx, `UPDATE fantasy_team_tours SET result = $2 WHERE id = $1`, "fantasy team tour", teamTourID, result)
}

func (r *FantasyRepository) UpdateTeamResult(ctx context.Context, teamID int64, result float64) error {
	return r.updateResult(ctx, `UPDATE fantasy_teams SET result = $2, updated_at = NOW() WHERE id = $1`, "fantasy team", teamID, result)
}

func (r *FantasyRepository) updateResult(ctx context.Context, query, entity string, id int64, result float64) error {
	res, err := r.db.ExecContext(ctx, query, id, result)
	if err != nil {
		return fmt.Errorf("update %s result: %w", entity, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s rows affected: %w", entity, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s id=%d does not exist", entity, id)
	}
	return nil
}
