package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/openfantasy/dota-fantasy/internal/domain/match"
)

type MatchRepository struct {
	mu           sync.RWMutex
	byID         map[int64]match.Match
	byExternalID map[int64]int64
	nextID       int64
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{
		byID:         make(map[int64]match.Match),
		byExternalID: make(map[int64]int64),
		nextID:       1,
	}
}

func (r *MatchRepository) ExistsByExternalID(_ context.Context, externalID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byExternalID[externalID]
	return ok, nil
}

func (r *MatchRepository) GetByExternalID(_ context.Context, externalID int64) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byExternalID[externalID]
	if !ok {
		return match.Match{}, false, nil
	}
	return r.byID[id], true, nil
}

func (r *MatchRepository) ListByExternalIDs(_ context.Context, externalIDs []int64) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(externalIDs))
	for _, externalID := range externalIDs {
		id, ok := r.byExternalID[externalID]
		if !ok {
			continue
		}
		out = append(out, r.byID[id])
	}
	return out, nil
}

func (r *MatchRepository) ListByIDs(_ context.Context, ids []int64) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(ids))
	for _, id := range ids {
		item, ok := r.byID[id]
		if !ok {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *MatchRepository) ListByTour(_ context.Context, tourID int64) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, 16)
	for _, item := range r.byID {
		if item.TourID == nil || *item.TourID != tourID {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MatchRepository) Create(_ context.Context, item match.Match) (match.Match, error) {
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

func (r *MatchRepository) Update(_ context.Context, item match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[item.ID]; !ok {
		return fmt.Errorf("match id=%d does not exist", item.ID)
	}
	r.byID[item.ID] = item
	return nil
}
