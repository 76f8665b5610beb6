package fantasy

// Team is one user's fantasy entry for a competition, unique per
// (UserID, CompetitionID). Result caches the sum of its tour results; it is
// always re-derivable by the rollup and never authored directly.
type Team struct {
	ID            int64
	UserID        int64
	CompetitionID int64
	Name          string
	Result        float64
}

// TeamTour is a fantasy team's roster for one competition tour, unique per
// (TeamID, TourID). Result caches the sum of its slot results.
type TeamTour struct {
	ID     int64
	TeamID int64
	TourID int64
	Result float64
}

// PlayerSlot is one roster slot inside a TeamTour. Result caches the
// referenced player's contribution for that tour.
type PlayerSlot struct {
	ID         int64
	TeamTourID int64
	PlayerID   int64
	Result     float64
}
