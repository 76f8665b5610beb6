package memory

import (
	"context"
	"sync"

	"github.com/openfantasy/dota-fantasy/internal/domain/player"
)

type resultKey struct {
	playerID int64
	matchID  int64
}

type PlayerResultRepository struct {
	mu   sync.RWMutex
	rows map[resultKey]player.MatchResult
}

func NewPlayerResultRepository() *PlayerResultRepository {
	return &PlayerResultRepository{
		rows: make(map[resultKey]player.MatchResult),
	}
}

func (r *PlayerResultRepository) Upsert(_ context.Context, result player.MatchResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rows[resultKey{playerID: result.PlayerID, matchID: result.MatchID}] = result
	return nil
}

func (r *PlayerResultRepository) ListByPlayerAndMatches(_ context.Context, playerID int64, matchIDs []int64) ([]player.MatchResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.MatchResult, 0, len(matchIDs))
	for _, matchID := range matchIDs {
		row, ok := r.rows[resultKey{playerID: playerID, matchID: matchID}]
		if !ok {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}
