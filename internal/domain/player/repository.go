package player

import "context"

// Repository describes player reference-data persistence needs from use cases.
type Repository interface {
	GetByExternalID(ctx context.Context, externalID int64) (Player, bool, error)
	ListByIDs(ctx context.Context, ids []int64) ([]Player, error)
}

// ResultRepository is the durable per-match scoring ledger. Upsert keeps the
// at-most-one-row-per-(player, match) invariant.
type ResultRepository interface {
	Upsert(ctx context.Context, result MatchResult) error
	ListByPlayerAndMatches(ctx context.Context, playerID int64, matchIDs []int64) ([]MatchResult, error)
}
