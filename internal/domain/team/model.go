package team

// Team is immutable reference data for a professional roster.
type Team struct {
	ID         int64
	ExternalID int64
	Name       string
}
