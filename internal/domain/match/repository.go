package match

import "context"

// Repository is the match registry: the dedup boundary for ingestion and the
// holder of per-stage progress flags.
type Repository interface {
	ExistsByExternalID(ctx context.Context, externalID int64) (bool, error)
	GetByExternalID(ctx context.Context, externalID int64) (Match, bool, error)
	ListByExternalIDs(ctx context.Context, externalIDs []int64) ([]Match, error)
	ListByIDs(ctx context.Context, ids []int64) ([]Match, error)
	ListByTour(ctx context.Context, tourID int64) ([]Match, error)
	Create(ctx context.Context, item Match) (Match, error)
	Update(ctx context.Context, item Match) error
}

// SeriesRepository persists best-of-N series records.
type SeriesRepository interface {
	GetByExternalID(ctx context.Context, externalID int64) (Series, bool, error)
	GetByID(ctx context.Context, id int64) (Series, bool, error)
	Create(ctx context.Context, item Series) (Series, error)
}

// IgnoreRepository is the permanent denylist of upstream match ids.
type IgnoreRepository interface {
	IsIgnored(ctx context.Context, externalID int64) (bool, error)
	Add(ctx context.Context, externalID int64) error
}
