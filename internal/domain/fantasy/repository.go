package fantasy

import "context"

// Repository describes fantasy aggregate persistence needs from use cases.
// Update* persist only the recomputed result caches.
type Repository interface {
	GetTeamByID(ctx context.Context, id int64) (Team, bool, error)
	ListTeamsByCompetition(ctx context.Context, competitionID int64) ([]Team, error)
	ListTeamToursByTour(ctx context.Context, tourID int64) ([]TeamTour, error)
	ListTeamToursByTeam(ctx context.Context, teamID int64) ([]TeamTour, error)
	ListSlotsByTeamTour(ctx context.Context, teamTourID int64) ([]PlayerSlot, error)
	UpdateSlotResult(ctx context.Context, slotID int64, result float64) error
	UpdateTeamTourResult(ctx context.Context, teamTourID int64, result float64) error
	UpdateTeamResult(ctx context.Context, teamID int64, result float64) error
}
