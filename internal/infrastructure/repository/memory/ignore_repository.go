package memory

import (
	"context"
	"sync"
)

type IgnoreRepository struct {
	mu  sync.RWMutex
	ids map[int64]struct{}
}

func NewIgnoreRepository(externalIDs ...int64) *IgnoreRepository {
	ids := make(map[int64]struct{}, len(externalIDs))
	for _, id := range externalIDs {
		ids[id] = struct{}{}
	}
	return &IgnoreRepository{ids: ids}
}

func (r *IgnoreRepository) IsIgnored(_ context.Context, externalID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.ids[externalID]
	return ok, nil
}

func (r *IgnoreRepository) Add(_ context.Context, externalID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ids[externalID] = struct{}{}
	return nil
}
