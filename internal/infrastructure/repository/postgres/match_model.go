package postgres

import (
	"database/sql"
	"fmt"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/openfantasy/dota-fantasy/internal/domain/match"
	"github.com/openfantasy/dota-fantasy/internal/domain/scoring"
)

type matchTableModel struct {
	ID               int64         `db:"id"`
	ExternalID       int64         `db:"external_id"`
	SeriesID         sql.NullInt64 `db:"series_id"`
	CompetitionID    sql.NullInt64 `db:"competition_id"`
	TourID           sql.NullInt64 `db:"tour_id"`
	RadiantTeamID    sql.NullInt64 `db:"radiant_team_id"`
	DireTeamID       sql.NullInt64 `db:"dire_team_id"`
	StartedAt        time.Time     `db:"started_at"`
	DetailRaw        []byte        `db:"detail_raw"`
	Results          []byte        `db:"results"`
	IsFilled         bool          `db:"is_filled"`
	IsParsed         bool          `db:"is_parsed"`
	IsRated          bool          `db:"is_rated"`
	IsSavedToPlayers bool          `db:"is_saved_to_players"`
	CreatedAt        time.Time     `db:"created_at"`
	UpdatedAt        time.Time     `db:"updated_at"`
}

func (m matchTableModel) toDomain() (match.Match, error) {
	out := match.Match{
		ID:               m.ID,
		ExternalID:       m.ExternalID,
		SeriesID:         int64Ptr(m.SeriesID),
		CompetitionID:    int64Ptr(m.CompetitionID),
		TourID:           int64Ptr(m.TourID),
		RadiantTeamID:    int64Ptr(m.RadiantTeamID),
		DireTeamID:       int64Ptr(m.DireTeamID),
		StartedAt:        m.StartedAt,
		DetailRaw:        m.DetailRaw,
		IsFilled:         m.IsFilled,
		IsParsed:         m.IsParsed,
		IsRated:          m.IsRated,
		IsSavedToPlayers: m.IsSavedToPlayers,
	}
	if len(m.Results) > 0 {
		if err := sonic.Unmarshal(m.Results, &out.Results); err != nil {
			return match.Match{}, fmt.Errorf("decode match results match_id=%d: %w", m.ID, err)
		}
	}
	return out, nil
}

// encodeMatchResults keeps NULL for never-rated matches only: a rated match
// with zero resolvable players still stores an empty object.
func encodeMatchResults(results scoring.MatchResult) ([]byte, error) {
	if results == nil {
		return nil, nil
	}
	raw, err := sonic.Marshal(results)
	if err != nil {
		return nil, fmt.Errorf("encode match results: %w", err)
	}
	return raw, nil
}

type seriesTableModel struct {
	ID            int64         `db:"id"`
	ExternalID    int64         `db:"external_id"`
	Format        string        `db:"format"`
	CompetitionID sql.NullInt64 `db:"competition_id"`
	TourID        sql.NullInt64 `db:"tour_id"`
	CreatedAt     time.Time     `db:"created_at"`
}

func (m seriesTableModel) toDomain() match.Series {
	return match.Series{
		ID:            m.ID,
		ExternalID:    m.ExternalID,
		Format:        match.SeriesFormat(m.Format),
		CompetitionID: int64Ptr(m.CompetitionID),
		TourID:        int64Ptr(m.TourID),
	}
}
