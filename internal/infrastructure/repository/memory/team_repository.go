package memory

import (
	"context"
	"sync"

	"github.com/openfantasy/dota-fantasy/internal/domain/team"
)

type TeamRepository struct {
	mu           sync.RWMutex
	byExternalID map[int64]team.Team
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	byExternalID := make(map[int64]team.Team, len(teams))
	for _, t := range teams {
		byExternalID[t.ExternalID] = t
	}
	return &TeamRepository{byExternalID: byExternalID}
}

func (r *TeamRepository) GetByExternalID(_ context.Context, externalID int64) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byExternalID[externalID]
	return t, ok, nil
}
