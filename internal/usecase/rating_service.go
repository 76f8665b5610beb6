package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/openfantasy/dota-fantasy/internal/domain/competition"
	"github.com/openfantasy/dota-fantasy/internal/domain/fantasy"
	"github.com/openfantasy/dota-fantasy/internal/domain/player"
)

const ratingLimit = 100

// RatingRow is one leaderboard line. Teams with equal results share a rank
// (dense ranking).
type RatingRow struct {
	Rank     int     `json:"rank"`
	TeamID   int64   `json:"team_id"`
	TeamName string  `json:"team_name"`
	Result   float64 `json:"result"`
}

// EditStatus reports whether roster changes are currently allowed for a
// competition's active tour.
type EditStatus struct {
	Allowed        bool       `json:"allowed"`
	TourID         *int64     `json:"tour_id,omitempty"`
	EditingStartAt *time.Time `json:"editing_start_at,omitempty"`
	EditingEndAt   *time.Time `json:"editing_end_at,omitempty"`
}

// RatingService serves the fantasy read side: leaderboards, the roster edit
// window and pick validation.
type RatingService struct {
	competitionRepo competition.Repository
	fantasyRepo     fantasy.Repository
	playerRepo      player.Repository
	rules           fantasy.Rules
	now             func() time.Time
}

func NewRatingService(
	competitionRepo competition.Repository,
	fantasyRepo fantasy.Repository,
	playerRepo player.Repository,
	rules fantasy.Rules,
) *RatingService {
	return &RatingService{
		competitionRepo: competitionRepo,
		fantasyRepo:     fantasyRepo,
		playerRepo:      playerRepo,
		rules:           rules,
		now:             time.Now,
	}
}

// CompetitionRating returns the top teams of a competition by accumulated
// result, at most 100 rows, dense-ranked.
func (s *RatingService) CompetitionRating(ctx context.Context, competitionID int64) ([]RatingRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RatingService.CompetitionRating")
	defer span.End()

	if competitionID <= 0 {
		return nil, fmt.Errorf("%w: competition id must be greater than zero", ErrInvalidInput)
	}
	if _, found, err := s.competitionRepo.GetByID(ctx, competitionID); err != nil {
		return nil, fmt.Errorf("load competition: %w", err)
	} else if !found {
		return nil, fmt.Errorf("%w: competition id=%d", ErrNotFound, competitionID)
	}

	teams, err := s.fantasyRepo.ListTeamsByCompetition(ctx, competitionID)
	if err != nil {
		return nil, fmt.Errorf("list fantasy teams: %w", err)
	}

	rows := make([]RatingRow, 0, len(teams))
	for _, item := range teams {
		rows = append(rows, RatingRow{TeamID: item.ID, TeamName: item.Name, Result: item.Result})
	}
	return rankAndTruncate(rows), nil
}

// TourRating returns the top teams of one tour by that tour's result.
func (s *RatingService) TourRating(ctx context.Context, tourID int64) ([]RatingRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RatingService.TourRating")
	defer span.End()

	if tourID <= 0 {
		return nil, fmt.Errorf("%w: tour id must be greater than zero", ErrInvalidInput)
	}
	if _, found, err := s.competitionRepo.GetTourByID(ctx, tourID); err != nil {
		return nil, fmt.Errorf("load tour: %w", err)
	} else if !found {
		return nil, fmt.Errorf("%w: tour id=%d", ErrNotFound, tourID)
	}

	teamTours, err := s.fantasyRepo.ListTeamToursByTour(ctx, tourID)
	if err != nil {
		return nil, fmt.Errorf("list team tours: %w", err)
	}

	rows := make([]RatingRow, 0, len(teamTours))
	for _, item := range teamTours {
		team, found, err := s.fantasyRepo.GetTeamByID(ctx, item.TeamID)
		if err != nil {
			return nil, fmt.Errorf("load fantasy team team_id=%d: %w", item.TeamID, err)
		}
		if !found {
			continue
		}
		rows = append(rows, RatingRow{TeamID: team.ID, TeamName: team.Name, Result: item.Result})
	}
	return rankAndTruncate(rows), nil
}

// CompetitionEditStatus reports the edit window of the competition's active
// tour. Without an active tour editing is closed.
func (s *RatingService) CompetitionEditStatus(ctx context.Context, competitionID int64) (EditStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RatingService.CompetitionEditStatus")
	defer span.End()

	if competitionID <= 0 {
		return EditStatus{}, fmt.Errorf("%w: competition id must be greater than zero", ErrInvalidInput)
	}

	comp, found, err := s.competitionRepo.GetByID(ctx, competitionID)
	if err != nil {
		return EditStatus{}, fmt.Errorf("load competition: %w", err)
	}
	if !found {
		return EditStatus{}, fmt.Errorf("%w: competition id=%d", ErrNotFound, competitionID)
	}
	if comp.ActiveTourID == nil {
		return EditStatus{Allowed: false}, nil
	}

	tour, found, err := s.competitionRepo.GetTourByID(ctx, *comp.ActiveTourID)
	if err != nil {
		return EditStatus{}, fmt.Errorf("load active tour: %w", err)
	}
	if !found {
		return EditStatus{Allowed: false}, nil
	}

	tourID := tour.ID
	startAt := tour.EditingStartAt
	endAt := tour.EditingEndAt
	return EditStatus{
		Allowed:        tour.IsEditingAllowed(s.now().UTC()),
		TourID:         &tourID,
		EditingStartAt: &startAt,
		EditingEndAt:   &endAt,
	}, nil
}

// CheckPick validates a candidate pick for a team's roster in one tour
// against the edit window and the budget rule.
func (s *RatingService) CheckPick(ctx context.Context, teamID, tourID, candidatePlayerID int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RatingService.CheckPick")
	defer span.End()

	if teamID <= 0 || tourID <= 0 || candidatePlayerID <= 0 {
		return fmt.Errorf("%w: team, tour and player ids must be greater than zero", ErrInvalidInput)
	}

	tour, found, err := s.competitionRepo.GetTourByID(ctx, tourID)
	if err != nil {
		return fmt.Errorf("load tour: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: tour id=%d", ErrNotFound, tourID)
	}

	candidates, err := s.playerRepo.ListByIDs(ctx, []int64{candidatePlayerID})
	if err != nil {
		return fmt.Errorf("load candidate player: %w", err)
	}
	if len(candidates) == 0 {
		return fmt.Errorf("%w: player id=%d", ErrNotFound, candidatePlayerID)
	}

	roster, err := s.rosterForTour(ctx, teamID, tourID)
	if err != nil {
		return err
	}
	return s.rules.CanPickPlayer(tour, roster, candidates[0], s.now().UTC())
}

func (s *RatingService) rosterForTour(ctx context.Context, teamID, tourID int64) ([]player.Player, error) {
	teamTours, err := s.fantasyRepo.ListTeamToursByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list team tours: %w", err)
	}

	var slots []fantasy.PlayerSlot
	for _, item := range teamTours {
		if item.TourID != tourID {
			continue
		}
		slots, err = s.fantasyRepo.ListSlotsByTeamTour(ctx, item.ID)
		if err != nil {
			return nil, fmt.Errorf("list roster slots: %w", err)
		}
		break
	}
	if len(slots) == 0 {
		return nil, nil
	}

	playerIDs := make([]int64, 0, len(slots))
	for _, slot := range slots {
		playerIDs = append(playerIDs, slot.PlayerID)
	}
	roster, err := s.playerRepo.ListByIDs(ctx, playerIDs)
	if err != nil {
		return nil, fmt.Errorf("load roster players: %w", err)
	}
	return roster, nil
}

func rankAndTruncate(rows []RatingRow) []RatingRow {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Result != rows[j].Result {
			return rows[i].Result > rows[j].Result
		}
		return rows[i].TeamID < rows[j].TeamID
	})

	rank := 0
	lastResult := 0.0
	for i := range rows {
		if i == 0 || rows[i].Result != lastResult {
			rank++
			lastResult = rows[i].Result
		}
		rows[i].Rank = rank
	}

	if len(rows) > ratingLimit {
		rows = rows[:ratingLimit]
	}
	return rows
}
