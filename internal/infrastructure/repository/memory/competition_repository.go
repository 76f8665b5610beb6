package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/openfantasy/dota-fantasy/internal/domain/competition"
)

type CompetitionRepository struct {
	mu           sync.RWMutex
	byID         map[int64]competition.Competition
	byExternalID map[int64]competition.Competition
	toursByID    map[int64]competition.Tour
}

func NewCompetitionRepository(competitions []competition.Competition, tours []competition.Tour) *CompetitionRepository {
	byID := make(map[int64]competition.Competition, len(competitions))
	byExternalID := make(map[int64]competition.Competition, len(competitions))
	for _, c := range competitions {
		byID[c.ID] = c
		byExternalID[c.ExternalID] = c
	}
	toursByID := make(map[int64]competition.Tour, len(tours))
	for _, t := range tours {
		toursByID[t.ID] = t
	}
	return &CompetitionRepository{
		byID:         byID,
		byExternalID: byExternalID,
		toursByID:    toursByID,
	}
}

func (r *CompetitionRepository) GetByExternalID(_ context.Context, externalID int64) (competition.Competition, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byExternalID[externalID]
	return c, ok, nil
}

func (r *CompetitionRepository) GetByID(_ context.Context, id int64) (competition.Competition, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	return c, ok, nil
}

func (r *CompetitionRepository) ListToursByCompetition(_ context.Context, competitionID int64) ([]competition.Tour, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]competition.Tour, 0, len(r.toursByID))
	for _, t := range r.toursByID {
		if t.CompetitionID != competitionID {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *CompetitionRepository) GetTourByID(_ context.Context, tourID int64) (competition.Tour, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.toursByID[tourID]
	return t, ok, nil
}
