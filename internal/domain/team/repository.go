package team

import "context"

// Repository describes team reference-data persistence needs from use cases.
type Repository interface {
	GetByExternalID(ctx context.Context, externalID int64) (Team, bool, error)
}
