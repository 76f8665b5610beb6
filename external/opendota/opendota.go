package opendota

// leagueMatchItem is one row of GET /leagues/{id}/matches. The provider
// returns many more columns; we only decode what the registry needs.
type leagueMatchItem struct {
	MatchID       int64 `json:"match_id"`
	SeriesID      int64 `json:"series_id"`
	SeriesType    int   `json:"series_type"`
	StartTime     int64 `json:"start_time"`
	RadiantTeamID int64 `json:"radiant_team_id"`
	DireTeamID    int64 `json:"dire_team_id"`
	RadiantWin    bool  `json:"radiant_win"`
	LeagueID      int64 `json:"leagueid"`
}
