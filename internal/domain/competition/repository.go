package competition

import "context"

// Repository describes competition/tour persistence needs from use cases.
type Repository interface {
	GetByExternalID(ctx context.Context, externalID int64) (Competition, bool, error)
	GetByID(ctx context.Context, id int64) (Competition, bool, error)
	ListToursByCompetition(ctx context.Context, competitionID int64) ([]Tour, error)
	GetTourByID(ctx context.Context, tourID int64) (Tour, bool, error)
}
