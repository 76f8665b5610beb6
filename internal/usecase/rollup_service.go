package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/openfantasy/dota-fantasy/internal/domain/competition"
	"github.com/openfantasy/dota-fantasy/internal/domain/fantasy"
	"github.com/openfantasy/dota-fantasy/internal/domain/match"
	"github.com/openfantasy/dota-fantasy/internal/domain/player"
	"github.com/openfantasy/dota-fantasy/internal/domain/scoring"
	"github.com/openfantasy/dota-fantasy/internal/platform/logging"
	"github.com/panjf2000/ants/v2"
)

const defaultRollupWorkers = 8

// RollupResult summarizes one fantasy recompute run.
type RollupResult struct {
	TourCount     int                `json:"tour_count"`
	TeamTourCount int                `json:"team_tour_count"`
	TeamCount     int                `json:"team_count"`
	FailedCount   int                `json:"failed_count"`
	WorkerCount   int                `json:"worker_count"`
	Tours         []RollupTourResult `json:"tours"`
}

// RollupTourResult is the per-tour outcome of a recompute run.
type RollupTourResult struct {
	TourID    int64  `json:"tour_id"`
	TeamTours int    `json:"team_tours"`
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
}

// RollupService recomputes fantasy results from the player ledger. The
// recompute is a full pull: slot results, team-tour results and team results
// are all rewritten from scratch, never incremented, so re-running after a
// re-rating converges on the corrected values.
type RollupService struct {
	matchRepo       match.Repository
	seriesRepo      match.SeriesRepository
	resultRepo      player.ResultRepository
	competitionRepo competition.Repository
	fantasyRepo     fantasy.Repository
	workers         int
	logger          *logging.Logger
}

func NewRollupService(
	matchRepo match.Repository,
	seriesRepo match.SeriesRepository,
	resultRepo player.ResultRepository,
	competitionRepo competition.Repository,
	fantasyRepo fantasy.Repository,
	workers int,
	logger *logging.Logger,
) *RollupService {
	if workers <= 0 {
		workers = defaultRollupWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &RollupService{
		matchRepo:       matchRepo,
		seriesRepo:      seriesRepo,
		resultRepo:      resultRepo,
		competitionRepo: competitionRepo,
		fantasyRepo:     fantasyRepo,
		workers:         workers,
		logger:          logger,
	}
}

// tourLedger is the per-tour scoring context shared by all team-tours of one
// tour: the tour's saved matches and the series formats they belong to.
type tourLedger struct {
	matchIDs       []int64
	seriesByMatch  map[int64]int64
	bestOfBySeries map[int64]int
}

// UpdateFantasyResults recomputes fantasy results for the given tours.
// Team-tours are processed concurrently; affected team totals are rewritten
// once at the end from their team-tour rows.
func (s *RollupService) UpdateFantasyResults(ctx context.Context, tourIDs []int64) (RollupResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RollupService.UpdateFantasyResults")
	defer span.End()

	if len(tourIDs) == 0 {
		return RollupResult{}, fmt.Errorf("%w: tour ids are required", ErrInvalidInput)
	}

	result := RollupResult{
		WorkerCount: s.workers,
		Tours:       make([]RollupTourResult, 0, len(tourIDs)),
	}

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return RollupResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	affectedTeams := make(map[int64]struct{})
	var affectedMu sync.Mutex

	for _, tourID := range tourIDs {
		row := RollupTourResult{TourID: tourID}

		_, found, err := s.competitionRepo.GetTourByID(ctx, tourID)
		if err != nil {
			row.Status = stageStatusFailed
			row.Message = fmt.Sprintf("load tour: %v", err)
			result.FailedCount++
			result.Tours = append(result.Tours, row)
			continue
		}
		if !found {
			row.Status = stageStatusFailed
			row.Message = "tour does not exist"
			result.FailedCount++
			result.Tours = append(result.Tours, row)
			continue
		}

		ledger, err := s.buildTourLedger(ctx, tourID)
		if err != nil {
			row.Status = stageStatusFailed
			row.Message = fmt.Sprintf("build tour ledger: %v", err)
			result.FailedCount++
			result.Tours = append(result.Tours, row)
			continue
		}

		teamTours, err := s.fantasyRepo.ListTeamToursByTour(ctx, tourID)
		if err != nil {
			row.Status = stageStatusFailed
			row.Message = fmt.Sprintf("list team tours: %v", err)
			result.FailedCount++
			result.Tours = append(result.Tours, row)
			continue
		}
		row.TeamTours = len(teamTours)
		result.TeamTourCount += len(teamTours)

		var tourFailed atomic.Int32
		var workers sync.WaitGroup
		for _, teamTour := range teamTours {
			teamTour := teamTour
			workers.Add(1)
			if err := pool.Submit(func() {
				defer workers.Done()
				if err := s.recomputeTeamTour(ctx, teamTour, ledger); err != nil {
					tourFailed.Add(1)
					s.logger.WarnContext(ctx, "team tour recompute failed", "team_tour_id", teamTour.ID, "tour_id", tourID, "error", err)
					return
				}
				affectedMu.Lock()
				affectedTeams[teamTour.TeamID] = struct{}{}
				affectedMu.Unlock()
			}); err != nil {
				workers.Done()
				return RollupResult{}, fmt.Errorf("submit team tour to worker pool: %w", err)
			}
		}
		workers.Wait()

		if failed := int(tourFailed.Load()); failed > 0 {
			row.Status = stageStatusFailed
			row.Message = fmt.Sprintf("%d team tours failed", failed)
			result.FailedCount++
		} else {
			row.Status = stageStatusProcessed
		}
		result.Tours = append(result.Tours, row)
	}
	result.TourCount = len(tourIDs)

	teamIDs := make([]int64, 0, len(affectedTeams))
	for teamID := range affectedTeams {
		teamIDs = append(teamIDs, teamID)
	}
	sort.Slice(teamIDs, func(i, j int) bool { return teamIDs[i] < teamIDs[j] })

	for _, teamID := range teamIDs {
		if err := s.recomputeTeam(ctx, teamID); err != nil {
			s.logger.WarnContext(ctx, "team total recompute failed", "team_id", teamID, "error", err)
			result.FailedCount++
			continue
		}
		result.TeamCount++
	}

	sort.SliceStable(result.Tours, func(i, j int) bool { return result.Tours[i].TourID < result.Tours[j].TourID })
	return result, nil
}

func (s *RollupService) buildTourLedger(ctx context.Context, tourID int64) (tourLedger, error) {
	matches, err := s.matchRepo.ListByTour(ctx, tourID)
	if err != nil {
		return tourLedger{}, fmt.Errorf("list tour matches: %w", err)
	}

	ledger := tourLedger{
		matchIDs:       make([]int64, 0, len(matches)),
		seriesByMatch:  make(map[int64]int64, len(matches)),
		bestOfBySeries: make(map[int64]int, 8),
	}

	for _, item := range matches {
		if !item.IsSavedToPlayers {
			continue
		}
		ledger.matchIDs = append(ledger.matchIDs, item.ID)
		if item.SeriesID == nil {
			continue
		}
		seriesID := *item.SeriesID
		ledger.seriesByMatch[item.ID] = seriesID
		if _, ok := ledger.bestOfBySeries[seriesID]; ok {
			continue
		}
		series, found, err := s.seriesRepo.GetByID(ctx, seriesID)
		if err != nil {
			return tourLedger{}, fmt.Errorf("load series series_id=%d: %w", seriesID, err)
		}
		if !found {
			return tourLedger{}, fmt.Errorf("series series_id=%d does not exist", seriesID)
		}
		ledger.bestOfBySeries[seriesID] = series.Format.BestOf()
	}

	sort.Slice(ledger.matchIDs, func(i, j int) bool { return ledger.matchIDs[i] < ledger.matchIDs[j] })
	return ledger, nil
}

func (s *RollupService) recomputeTeamTour(ctx context.Context, teamTour fantasy.TeamTour, ledger tourLedger) error {
	slots, err := s.fantasyRepo.ListSlotsByTeamTour(ctx, teamTour.ID)
	if err != nil {
		return fmt.Errorf("list slots: %w", err)
	}

	teamTourTotal := 0.0
	for _, slot := range slots {
		slotTotal, err := s.playerTourTotal(ctx, slot.PlayerID, ledger)
		if err != nil {
			return fmt.Errorf("compute slot player_id=%d: %w", slot.PlayerID, err)
		}
		if err := s.fantasyRepo.UpdateSlotResult(ctx, slot.ID, slotTotal); err != nil {
			return fmt.Errorf("store slot result: %w", err)
		}
		teamTourTotal += slotTotal
	}

	teamTourTotal = scoring.Round2(teamTourTotal)
	if err := s.fantasyRepo.UpdateTeamTourResult(ctx, teamTour.ID, teamTourTotal); err != nil {
		return fmt.Errorf("store team tour result: %w", err)
	}
	return nil
}

// playerTourTotal sums a player's ledger rows over the tour, applying the
// best-of scaling per series. Matches outside any series contribute their raw
// totals.
func (s *RollupService) playerTourTotal(ctx context.Context, playerID int64, ledger tourLedger) (float64, error) {
	if len(ledger.matchIDs) == 0 {
		return 0, nil
	}

	rows, err := s.resultRepo.ListByPlayerAndMatches(ctx, playerID, ledger.matchIDs)
	if err != nil {
		return 0, fmt.Errorf("list ledger rows: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].MatchID < rows[j].MatchID })

	total := 0.0
	bySeries := make(map[int64][]float64, 4)
	seriesOrder := make([]int64, 0, 4)
	for _, row := range rows {
		seriesID, inSeries := ledger.seriesByMatch[row.MatchID]
		if !inSeries {
			total += row.Result
			continue
		}
		if _, seen := bySeries[seriesID]; !seen {
			seriesOrder = append(seriesOrder, seriesID)
		}
		bySeries[seriesID] = append(bySeries[seriesID], row.Result)
	}

	for _, seriesID := range seriesOrder {
		total += scoring.SeriesContribution(ledger.bestOfBySeries[seriesID], bySeries[seriesID])
	}
	return scoring.Round2(total), nil
}

func (s *RollupService) recomputeTeam(ctx context.Context, teamID int64) error {
	teamTours, err := s.fantasyRepo.ListTeamToursByTeam(ctx, teamID)
	if err != nil {
		return fmt.Errorf("list team tours: %w", err)
	}

	total := 0.0
	for _, teamTour := range teamTours {
		total += teamTour.Result
	}
	total = scoring.Round2(total)

	if err := s.fantasyRepo.UpdateTeamResult(ctx, teamID, total); err != nil {
		return fmt.Errorf("store team result: %w", err)
	}
	return nil
}
