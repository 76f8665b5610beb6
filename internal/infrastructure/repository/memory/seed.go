package memory

import (
	"time"

	"github.com/openfantasy/dota-fantasy/internal/domain/competition"
	"github.com/openfantasy/dota-fantasy/internal/domain/fantasy"
	"github.com/openfantasy/dota-fantasy/internal/domain/player"
	"github.com/openfantasy/dota-fantasy/internal/domain/team"
)

const (
	SeedCompetitionID         = int64(1)
	SeedCompetitionExternalID = int64(16935)
	SeedTourOneID             = int64(1)
	SeedTourTwoID             = int64(2)
)

func SeedCompetitions() []competition.Competition {
	activeTour := SeedTourOneID
	return []competition.Competition{
		{
			ID:           SeedCompetitionID,
			ExternalID:   SeedCompetitionExternalID,
			Name:         "The International 2026",
			Status:       competition.StatusStarted,
			ActiveTourID: &activeTour,
		},
	}
}

func SeedTours() []competition.Tour {
	return []competition.Tour{
		{
			ID:             SeedTourOneID,
			CompetitionID:  SeedCompetitionID,
			Number:         1,
			Status:         competition.TourStatusOngoing,
			StartAt:        time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			EndAt:          time.Date(2026, 9, 4, 23, 59, 59, 0, time.UTC),
			EditingStartAt: time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
			EditingEndAt:   time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC),
		},
		{
			ID:             SeedTourTwoID,
			CompetitionID:  SeedCompetitionID,
			Number:         2,
			Status:         competition.TourStatusExpected,
			StartAt:        time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
			EndAt:          time.Date(2026, 9, 8, 23, 59, 59, 0, time.UTC),
			EditingStartAt: time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC),
			EditingEndAt:   time.Date(2026, 9, 4, 23, 59, 59, 0, time.UTC),
		},
	}
}

func SeedTeams() []team.Team {
	return []team.Team{
		{ID: 1, ExternalID: 7119388, Name: "Team Spirit"},
		{ID: 2, ExternalID: 8599101, Name: "Gaimin Gladiators"},
		{ID: 3, ExternalID: 2163, Name: "Team Liquid"},
		{ID: 4, ExternalID: 8291895, Name: "Tundra Esports"},
	}
}

func SeedPlayers() []player.Player {
	teamSpirit, gladiators := int64(1), int64(2)
	return []player.Player{
		{ID: 1, ExternalID: 321580662, Nickname: "Yatoro", Role: player.RoleCarry, TeamID: &teamSpirit, Cost: 1500},
		{ID: 2, ExternalID: 302214028, Nickname: "Larl", Role: player.RoleMid, TeamID: &teamSpirit, Cost: 1200},
		{ID: 3, ExternalID: 113331514, Nickname: "Collapse", Role: player.RoleHard, TeamID: &teamSpirit, Cost: 1100},
		{ID: 4, ExternalID: 255219872, Nickname: "Mira", Role: player.RoleSupport4, TeamID: &teamSpirit, Cost: 800},
		{ID: 5, ExternalID: 106305042, Nickname: "Miposhka", Role: player.RoleSupport5, TeamID: &teamSpirit, Cost: 700},
		{ID: 6, ExternalID: 127565532, Nickname: "dyrachyo", Role: player.RoleCarry, TeamID: &gladiators, Cost: 1400},
		{ID: 7, ExternalID: 166236918, Nickname: "Quinn", Role: player.RoleMid, TeamID: &gladiators, Cost: 1300},
		{ID: 8, ExternalID: 117956848, Nickname: "Ace", Role: player.RoleHard, TeamID: &gladiators, Cost: 1000},
		{ID: 9, ExternalID: 152962063, Nickname: "tOfu", Role: player.RoleSupport4, TeamID: &gladiators, Cost: 750},
		{ID: 10, ExternalID: 134276083, Nickname: "Seleri", Role: player.RoleSupport5, TeamID: &gladiators, Cost: 650},
	}
}

func SeedFantasyTeams() []fantasy.Team {
	return []fantasy.Team{
		{ID: 1, UserID: 101, CompetitionID: SeedCompetitionID, Name: "Ancient Apostles"},
		{ID: 2, UserID: 102, CompetitionID: SeedCompetitionID, Name: "Roshan Rollers"},
	}
}

func SeedFantasyTeamTours() []fantasy.TeamTour {
	return []fantasy.TeamTour{
		{ID: 1, TeamID: 1, TourID: SeedTourOneID},
		{ID: 2, TeamID: 2, TourID: SeedTourOneID},
		{ID: 3, TeamID: 1, TourID: SeedTourTwoID},
	}
}

func SeedFantasySlots() []fantasy.PlayerSlot {
	return []fantasy.PlayerSlot{
		{ID: 1, TeamTourID: 1, PlayerID: 1},
		{ID: 2, TeamTourID: 1, PlayerID: 2},
		{ID: 3, TeamTourID: 1, PlayerID: 4},
		{ID: 4, TeamTourID: 2, PlayerID: 6},
		{ID: 5, TeamTourID: 2, PlayerID: 7},
		{ID: 6, TeamTourID: 2, PlayerID: 9},
		{ID: 7, TeamTourID: 3, PlayerID: 1},
	}
}
