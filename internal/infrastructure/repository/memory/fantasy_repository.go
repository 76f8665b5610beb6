package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/openfantasy/dota-fantasy/internal/domain/fantasy"
)

type FantasyRepository struct {
	mu        sync.RWMutex
	teams     map[int64]fantasy.Team
	teamTours map[int64]fantasy.TeamTour
	slots     map[int64]fantasy.PlayerSlot
}

func NewFantasyRepository(teams []fantasy.Team, teamTours []fantasy.TeamTour, slots []fantasy.PlayerSlot) *FantasyRepository {
	teamsByID := make(map[int64]fantasy.Team, len(teams))
	for _, t := range teams {
		teamsByID[t.ID] = t
	}
	teamToursByID := make(map[int64]fantasy.TeamTour, len(teamTours))
	for _, tt := range teamTours {
		teamToursByID[tt.ID] = tt
	}
	slotsByID := make(map[int64]fantasy.PlayerSlot, len(slots))
	for _, s := range slots {
		slotsByID[s.ID] = s
	}
	return &FantasyRepository{
		teams:     teamsByID,
		teamTours: teamToursByID,
		slots:     slotsByID,
	}
}

func (r *FantasyRepository) GetTeamByID(_ context.Context, id int64) (fantasy.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.teams[id]
	return t, ok, nil
}

func (r *FantasyRepository) ListTeamsByCompetition(_ context.Context, competitionID int64) ([]fantasy.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fantasy.Team, 0, len(r.teams))
	for _, t := range r.teams {
		if t.CompetitionID != competitionID {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *FantasyRepository) ListTeamToursByTour(_ context.Context, tourID int64) ([]fantasy.TeamTour, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fantasy.TeamTour, 0, len(r.teamTours))
	for _, tt := range r.teamTours {
		if tt.TourID != tourID {
			continue
		}
		out = append(out, tt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *FantasyRepository) ListTeamToursByTeam(_ context.Context, teamID int64) ([]fantasy.TeamTour, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fantasy.TeamTour, 0, len(r.teamTours))
	for _, tt := range r.teamTours {
		if tt.TeamID != teamID {
			continue
		}
		out = append(out, tt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *FantasyRepository) ListSlotsByTeamTour(_ context.Context, teamTourID int64) ([]fantasy.PlayerSlot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fantasy.PlayerSlot, 0, 5)
	for _, s := range r.slots {
		if s.TeamTourID != teamTourID {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *FantasyRepository) UpdateSlotResult(_ context.Context, slotID int64, result float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.slots[slotID]
	if !ok {
		return fmt.Errorf("player slot id=%d does not exist", slotID)
	}
	s.Result = result
	r.slots[slotID] = s
	return nil
}

func (r *FantasyRepository) UpdateTeamTourResult(_ context.Context, teamTourID int64, result float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tt, ok := r.teamTours[teamTourID]
	if !ok {
		return fmt.Errorf("team tour id=%d does not exist", teamTourID)
	}
	tt.Result = result
	r.teamTours[teamTourID] = tt
	return nil
}

func (r *FantasyRepository) UpdateTeamResult(_ context.Context, teamID int64, result float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.teams[teamID]
	if !ok {
		return fmt.Errorf("fantasy team id=%d does not exist", teamID)
	}
	t.Result = result
	r.teams[teamID] = t
	return nil
}
