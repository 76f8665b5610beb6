package match

import (
	"time"

	"github.com/openfantasy/dota-fantasy/internal/domain/scoring"
)

// SeriesFormat is the best-of format of a series as reported upstream.
type SeriesFormat string

const (
	FormatBo1 SeriesFormat = "bo1"
	FormatBo2 SeriesFormat = "bo2"
	FormatBo3 SeriesFormat = "bo3"
	FormatBo5 SeriesFormat = "bo5"
)

// FormatFromSeriesType maps the upstream series_type code. Unknown codes fall
// back to bo1 so a series record still gets created.
func FormatFromSeriesType(code int) SeriesFormat {
	switch code {
	case 1:
		return FormatBo3
	case 2:
		return FormatBo5
	default:
		return FormatBo1
	}
}

func (f SeriesFormat) BestOf() int {
	switch f {
	case FormatBo2:
		return 2
	case FormatBo3:
		return 3
	case FormatBo5:
		return 5
	default:
		return 1
	}
}

// Series groups the matches of one best-of-N set between two teams.
// ExternalID is unique; the first writer wins on format/competition/tour.
type Series struct {
	ID            int64
	ExternalID    int64
	Format        SeriesFormat
	CompetitionID *int64
	TourID        *int64
}

// Match is one ingested game. DetailRaw is the opaque upstream detail payload
// kept for re-rating and audits; Results is the derived per-player breakdown
// keyed by the upstream account id.
//
// The four progress flags are monotonic and independently guarded: each
// pipeline stage selects on its own flag only and re-running a stage on an
// already-flagged record is a no-op.
type Match struct {
	ID            int64
	ExternalID    int64
	SeriesID      *int64
	CompetitionID *int64
	TourID        *int64
	RadiantTeamID *int64
	DireTeamID    *int64
	StartedAt     time.Time
	DetailRaw     []byte
	Results       scoring.MatchResult

	IsFilled         bool
	IsParsed         bool
	IsRated          bool
	IsSavedToPlayers bool
}
