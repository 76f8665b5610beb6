package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/openfantasy/dota-fantasy/internal/domain/match"
	"github.com/openfantasy/dota-fantasy/internal/domain/player"
	"github.com/openfantasy/dota-fantasy/internal/infrastructure/repository/memory"
	"github.com/openfantasy/dota-fantasy/internal/platform/logging"
)

type rollupFixture struct {
	svc         *RollupService
	matchRepo   *memory.MatchRepository
	seriesRepo  *memory.SeriesRepository
	resultRepo  *memory.PlayerResultRepository
	fantasyRepo *memory.FantasyRepository
}

func newRollupFixture(t *testing.T) *rollupFixture {
	t.Helper()

	f := &rollupFixture{
		matchRepo:  memory.NewMatchRepository(),
		seriesRepo: memory.NewSeriesRepository(),
		resultRepo: memory.NewPlayerResultRepository(),
		fantasyRepo: memory.NewFantasyRepository(
			memory.SeedFantasyTeams(),
			memory.SeedFantasyTeamTours(),
			memory.SeedFantasySlots(),
		),
	}
	f.svc = NewRollupService(
		f.matchRepo,
		f.seriesRepo,
		f.resultRepo,
		memory.NewCompetitionRepository(memory.SeedCompetitions(), memory.SeedTours()),
		f.fantasyRepo,
		2,
		logging.NewNop(),
	)
	return f
}

// seedSavedMatch registers a saved match in the tour, optionally inside a
// series, and writes ledger rows for the given player results.
func (f *rollupFixture) seedSavedMatch(t *testing.T, externalID int64, tourID int64, seriesID *int64, results map[int64]float64) int64 {
	t.Helper()

	created, err := f.matchRepo.Create(t.Context(), match.Match{
		ExternalID:       externalID,
		TourID:           &tourID,
		SeriesID:         seriesID,
		IsFilled:         true,
		IsParsed:         true,
		IsRated:          true,
		IsSavedToPlayers: true,
	})
	if err != nil {
		t.Fatalf("seed match: %v", err)
	}
	for playerID, result := range results {
		if err := f.resultRepo.Upsert(t.Context(), player.MatchResult{PlayerID: playerID, MatchID: created.ID, Result: result}); err != nil {
			t.Fatalf("seed ledger row: %v", err)
		}
	}
	return created.ID
}

func (f *rollupFixture) seedSeries(t *testing.T, externalID int64, format match.SeriesFormat) int64 {
	t.Helper()

	created, err := f.seriesRepo.Create(t.Context(), match.Series{ExternalID: externalID, Format: format})
	if err != nil {
		t.Fatalf("seed series: %v", err)
	}
	return created.ID
}

func TestRollupService_UpdateFantasyResults_ScalesSeriesAndSums(t *testing.T) {
	f := newRollupFixture(t)

	// Player 1 plays a full bo3 (10 points per game) plus a standalone match
	// worth 5: (30/3)*2 + 5 = 25. Player 2 has a single standalone match.
	seriesID := f.seedSeries(t, 40, match.FormatBo3)
	f.seedSavedMatch(t, 9001, memory.SeedTourOneID, &seriesID, map[int64]float64{1: 10})
	f.seedSavedMatch(t, 9002, memory.SeedTourOneID, &seriesID, map[int64]float64{1: 10})
	f.seedSavedMatch(t, 9003, memory.SeedTourOneID, &seriesID, map[int64]float64{1: 10})
	f.seedSavedMatch(t, 9004, memory.SeedTourOneID, nil, map[int64]float64{1: 5, 2: 8})

	result, err := f.svc.UpdateFantasyResults(t.Context(), []int64{memory.SeedTourOneID})
	if err != nil {
		t.Fatalf("update fantasy results failed: %v", err)
	}
	if result.FailedCount != 0 {
		t.Fatalf("expected clean run, got %+v", result)
	}
	if result.TeamTourCount != 2 {
		t.Fatalf("expected two team tours in tour one, got %d", result.TeamTourCount)
	}

	slots, err := f.fantasyRepo.ListSlotsByTeamTour(t.Context(), 1)
	if err != nil {
		t.Fatalf("list slots failed: %v", err)
	}
	bySlotPlayer := make(map[int64]float64, len(slots))
	for _, slot := range slots {
		bySlotPlayer[slot.PlayerID] = slot.Result
	}
	if bySlotPlayer[1] != 25 {
		t.Fatalf("expected player 1 tour total 25.00, got %v", bySlotPlayer[1])
	}
	if bySlotPlayer[2] != 8 {
		t.Fatalf("expected player 2 tour total 8.00, got %v", bySlotPlayer[2])
	}
	if bySlotPlayer[4] != 0 {
		t.Fatalf("expected player without ledger rows to score 0, got %v", bySlotPlayer[4])
	}

	teamTours, err := f.fantasyRepo.ListTeamToursByTour(t.Context(), memory.SeedTourOneID)
	if err != nil {
		t.Fatalf("list team tours failed: %v", err)
	}
	for _, tt := range teamTours {
		if tt.TeamID == 1 && tt.Result != 33 {
			t.Fatalf("expected team tour total 33.00, got %v", tt.Result)
		}
	}

	team, found, err := f.fantasyRepo.GetTeamByID(t.Context(), 1)
	if err != nil || !found {
		t.Fatalf("load team failed: found=%v err=%v", found, err)
	}
	if team.Result != 33 {
		t.Fatalf("expected team total 33.00, got %v", team.Result)
	}
}

func TestRollupService_UpdateFantasyResults_IsAFullRecompute(t *testing.T) {
	f := newRollupFixture(t)
	f.seedSavedMatch(t, 9001, memory.SeedTourOneID, nil, map[int64]float64{1: 10})

	if _, err := f.svc.UpdateFantasyResults(t.Context(), []int64{memory.SeedTourOneID}); err != nil {
		t.Fatalf("first rollup failed: %v", err)
	}

	// Re-rating changed the ledger; the recompute must replace, not add.
	if err := f.resultRepo.Upsert(t.Context(), player.MatchResult{PlayerID: 1, MatchID: 1, Result: 12}); err != nil {
		t.Fatalf("update ledger row: %v", err)
	}
	if _, err := f.svc.UpdateFantasyResults(t.Context(), []int64{memory.SeedTourOneID}); err != nil {
		t.Fatalf("second rollup failed: %v", err)
	}

	team, _, err := f.fantasyRepo.GetTeamByID(t.Context(), 1)
	if err != nil {
		t.Fatalf("load team failed: %v", err)
	}
	if team.Result != 12 {
		t.Fatalf("expected recompute to settle on 12.00, got %v", team.Result)
	}
}

func TestRollupService_UpdateFantasyResults_SpansTeamTours(t *testing.T) {
	f := newRollupFixture(t)
	f.seedSavedMatch(t, 9001, memory.SeedTourOneID, nil, map[int64]float64{1: 10})
	f.seedSavedMatch(t, 9002, memory.SeedTourTwoID, nil, map[int64]float64{1: 7})

	result, err := f.svc.UpdateFantasyResults(t.Context(), []int64{memory.SeedTourOneID, memory.SeedTourTwoID})
	if err != nil {
		t.Fatalf("rollup failed: %v", err)
	}
	if result.TourCount != 2 {
		t.Fatalf("expected two tours, got %d", result.TourCount)
	}

	team, _, err := f.fantasyRepo.GetTeamByID(t.Context(), 1)
	if err != nil {
		t.Fatalf("load team failed: %v", err)
	}
	if team.Result != 17 {
		t.Fatalf("expected team total 17.00 across tours, got %v", team.Result)
	}
}

func TestRollupService_UpdateFantasyResults_UnknownTourFails(t *testing.T) {
	f := newRollupFixture(t)

	result, err := f.svc.UpdateFantasyResults(t.Context(), []int64{424242})
	if err != nil {
		t.Fatalf("rollup failed: %v", err)
	}
	if result.FailedCount != 1 {
		t.Fatalf("expected unknown tour to fail, got %+v", result)
	}
}

func TestRollupService_UpdateFantasyResults_RequiresTourIDs(t *testing.T) {
	f := newRollupFixture(t)

	if _, err := f.svc.UpdateFantasyResults(context.Background(), nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRollupService_IgnoresUnsavedMatches(t *testing.T) {
	f := newRollupFixture(t)
	f.seedSavedMatch(t, 9001, memory.SeedTourOneID, nil, map[int64]float64{1: 10})

	tourID := memory.SeedTourOneID
	unsaved, err := f.matchRepo.Create(t.Context(), match.Match{ExternalID: 9002, TourID: &tourID, IsFilled: true, IsRated: true})
	if err != nil {
		t.Fatalf("seed unsaved match: %v", err)
	}
	if err := f.resultRepo.Upsert(t.Context(), player.MatchResult{PlayerID: 1, MatchID: unsaved.ID, Result: 99}); err != nil {
		t.Fatalf("seed stray ledger row: %v", err)
	}

	if _, err := f.svc.UpdateFantasyResults(t.Context(), []int64{memory.SeedTourOneID}); err != nil {
		t.Fatalf("rollup failed: %v", err)
	}

	team, _, err := f.fantasyRepo.GetTeamByID(t.Context(), 1)
	if err != nil {
		t.Fatalf("load team failed: %v", err)
	}
	if team.Result != 10 {
		t.Fatalf("expected unsaved match to be excluded, got total %v", team.Result)
	}
}
