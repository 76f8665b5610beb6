package competition

import (
	"sort"
	"time"
)

type Status string

const (
	StatusNotStarted Status = "NOT_STARTED"
	StatusStarted    Status = "STARTED"
	StatusFinished   Status = "FINISHED"
)

type TourStatus string

const (
	TourStatusExpected TourStatus = "EXPECTED"
	TourStatusOngoing  TourStatus = "ONGOING"
	TourStatusFinished TourStatus = "FINISHED"
)

// Competition is one tracked tournament. ExternalID is the upstream league id.
// ActiveTourID drives the roster edit-window checks.
type Competition struct {
	ID           int64
	ExternalID   int64
	Name         string
	Status       Status
	ActiveTourID *int64
}

// Tour is a time-boxed sub-period of a competition. The classification window
// (StartAt/EndAt) scopes match-to-tour assignment; the editing window
// (EditingStartAt/EditingEndAt) gates roster changes. The two windows are
// configured independently and may be disjoint.
type Tour struct {
	ID             int64
	CompetitionID  int64
	Number         int
	Status         TourStatus
	StartAt        time.Time
	EndAt          time.Time
	EditingStartAt time.Time
	EditingEndAt   time.Time
}

// Contains reports whether ts falls inside the classification window,
// inclusive on both ends.
func (t Tour) Contains(ts time.Time) bool {
	if ts.Before(t.StartAt) {
		return false
	}
	return !ts.After(t.EndAt)
}

func (t Tour) IsEditingAllowed(now time.Time) bool {
	if t.EditingStartAt.IsZero() || t.EditingEndAt.IsZero() {
		return false
	}
	if now.Before(t.EditingStartAt) {
		return false
	}
	return !now.After(t.EditingEndAt)
}

// ClassifyTour picks the tour whose classification window contains ts.
// Overlapping windows are resolved deterministically by the lowest tour ID.
// A miss returns false; the match stays tour-less until the windows are fixed.
func ClassifyTour(tours []Tour, ts time.Time) (Tour, bool) {
	candidates := make([]Tour, 0, 1)
	for _, item := range tours {
		if item.Contains(ts) {
			candidates = append(candidates, item)
		}
	}
	if len(candidates) == 0 {
		return Tour{}, false
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].ID < candidates[j].ID
	})
	return candidates[0], true
}
