package memory

import (
	"context"
	"sync"

	"github.com/openfantasy/dota-fantasy/internal/domain/player"
)

type PlayerRepository struct {
	mu           sync.RWMutex
	byID         map[int64]player.Player
	byExternalID map[int64]player.Player
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	byID := make(map[int64]player.Player, len(players))
	byExternalID := make(map[int64]player.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
		byExternalID[p.ExternalID] = p
	}
	return &PlayerRepository{
		byID:         byID,
		byExternalID: byExternalID,
	}
}

func (r *PlayerRepository) GetByExternalID(_ context.Context, externalID int64) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byExternalID[externalID]
	return p, ok, nil
}

func (r *PlayerRepository) ListByIDs(_ context.Context, ids []int64) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(ids))
	for _, id := range ids {
		p, ok := r.byID[id]
		if !ok {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
