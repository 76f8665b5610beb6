package usecase

import (
	"context"
	"time"
)

// MatchSummary is the provider's lightweight per-match row from a league
// listing. Series fields are zero when the match is not part of a series.
type MatchSummary struct {
	ExternalID            int64
	SeriesExternalID      int64
	SeriesType            int
	StartedAt             time.Time
	RadiantTeamExternalID int64
	DireTeamExternalID    int64
}

// MatchSourceClient is the upstream statistics API boundary.
//
// FetchMatchDetail returns (nil, false, nil) when the provider could not
// serve the payload within the client's bounded retries; that leaves the
// match unparsed for a later run and must not abort the batch.
type MatchSourceClient interface {
	FetchLeagueMatchSummaries(ctx context.Context, leagueExternalID int64) ([]MatchSummary, error)
	FetchMatchDetail(ctx context.Context, matchExternalID int64) ([]byte, bool, error)
}
