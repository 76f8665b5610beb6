package memory

import (
	"context"
	"sync"

	"github.com/openfantasy/dota-fantasy/internal/domain/match"
)

type SeriesRepository struct {
	mu           sync.RWMutex
	byID         map[int64]match.Series
	byExternalID map[int64]int64
	nextID       int64
}

func NewSeriesRepository() *SeriesRepository {
	return &SeriesRepository{
		byID:         make(map[int64]match.Series),
		byExternalID: make(map[int64]int64),
		nextID:       1,
	}
}

func (r *SeriesRepository) GetByExternalID(_ context.Context, externalID int64) (match.Series, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byExternalID[externalID]
	if !ok {
		return match.Series{}, false, nil
	}
	return r.byID[id], true, nil
}

func (r *SeriesRepository) GetByID(_ context.Context, id int64) (match.Series, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byID[id]
	return item, ok, nil
}

// Create is idempotent on the external id: a concurrent create of the same
// series returns the already stored row.
func (r *SeriesRepository) Create(_ context.Context, item match.Series) (match.Series, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byExternalID[item.ExternalID]; ok {
		return r.byID[id], nil
	}
	item.ID = r.nextID
	r.nextID++
	r.byID[item.ID] = item
	r.byExternalID[item.ExternalID] = item.ID
	return item, nil
}
