package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/openfantasy/dota-fantasy/internal/domain/competition"
	"github.com/openfantasy/dota-fantasy/internal/domain/match"
	"github.com/openfantasy/dota-fantasy/internal/domain/player"
	"github.com/openfantasy/dota-fantasy/internal/domain/scoring"
	"github.com/openfantasy/dota-fantasy/internal/domain/team"
	"github.com/openfantasy/dota-fantasy/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

const (
	stageStatusProcessed = "processed"
	stageStatusSkipped   = "skipped"
	stageStatusFailed    = "failed"

	defaultDetailAttempts   = 10
	defaultDetailRetryDelay = time.Second
	defaultRegisterWorkers  = 4
)

// StageRowResult is the per-record outcome of one pipeline stage run.
type StageRowResult struct {
	ID      int64  `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// StageResult summarizes one stage run over an explicit id list. A failed
// row never aborts the batch; callers inspect Rows for details.
type StageResult struct {
	Requested int              `json:"requested"`
	Processed int              `json:"processed"`
	Skipped   int              `json:"skipped"`
	Failed    int              `json:"failed"`
	Rows      []StageRowResult `json:"rows"`
}

func (r *StageResult) add(row StageRowResult) {
	switch row.Status {
	case stageStatusProcessed:
		r.Processed++
	case stageStatusSkipped:
		r.Skipped++
	default:
		r.Failed++
	}
	r.Rows = append(r.Rows, row)
}

func (r *StageResult) sortRows() {
	sort.SliceStable(r.Rows, func(i, j int) bool { return r.Rows[i].ID < r.Rows[j].ID })
}

type PipelineConfig struct {
	DetailAttempts   int
	DetailRetryDelay time.Duration
	RegisterWorkers  int
}

func (c PipelineConfig) normalize() PipelineConfig {
	if c.DetailAttempts <= 0 {
		c.DetailAttempts = defaultDetailAttempts
	}
	if c.DetailRetryDelay <= 0 {
		c.DetailRetryDelay = defaultDetailRetryDelay
	}
	if c.RegisterWorkers <= 0 {
		c.RegisterWorkers = defaultRegisterWorkers
	}
	return c
}

// PipelineService runs the match ingestion stages: register, fetch details,
// rate, save to the player ledger. Every stage takes an explicit id list,
// guards on its own progress flag and is safe to re-run.
type PipelineService struct {
	source          MatchSourceClient
	matchRepo       match.Repository
	seriesRepo      match.SeriesRepository
	ignoreRepo      match.IgnoreRepository
	competitionRepo competition.Repository
	teamRepo        team.Repository
	playerRepo      player.Repository
	resultRepo      player.ResultRepository
	formula         scoring.Formula
	cfg             PipelineConfig
	logger          *logging.Logger
	sleep           func(ctx context.Context, d time.Duration) error
}

func NewPipelineService(
	source MatchSourceClient,
	matchRepo match.Repository,
	seriesRepo match.SeriesRepository,
	ignoreRepo match.IgnoreRepository,
	competitionRepo competition.Repository,
	teamRepo team.Repository,
	playerRepo player.Repository,
	resultRepo player.ResultRepository,
	formula scoring.Formula,
	cfg PipelineConfig,
	logger *logging.Logger,
) *PipelineService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PipelineService{
		source:          source,
		matchRepo:       matchRepo,
		seriesRepo:      seriesRepo,
		ignoreRepo:      ignoreRepo,
		competitionRepo: competitionRepo,
		teamRepo:        teamRepo,
		playerRepo:      playerRepo,
		resultRepo:      resultRepo,
		formula:         formula,
		cfg:             cfg.normalize(),
		logger:          logger,
		sleep:           sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RegisterMatches pulls the match listings of the given upstream league ids
// and creates registry rows for matches not seen before. Rows come back keyed
// by upstream match id. Leagues are fetched concurrently; rows within one
// league are registered in match-id order.
func (s *PipelineService) RegisterMatches(ctx context.Context, leagueExternalIDs []int64) (StageResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PipelineService.RegisterMatches")
	defer span.End()

	if len(leagueExternalIDs) == 0 {
		return StageResult{}, fmt.Errorf("%w: league ids are required", ErrInvalidInput)
	}

	var mu sync.Mutex
	result := StageResult{}

	workers := pool.New().WithMaxGoroutines(s.cfg.RegisterWorkers)
	for _, leagueID := range leagueExternalIDs {
		leagueID := leagueID
		workers.Go(func() {
			rows := s.registerLeague(ctx, leagueID)
			mu.Lock()
			defer mu.Unlock()
			result.Requested += len(rows)
			for _, row := range rows {
				result.add(row)
			}
		})
	}
	workers.Wait()

	result.sortRows()
	return result, nil
}

func (s *PipelineService) registerLeague(ctx context.Context, leagueExternalID int64) []StageRowResult {
	comp, found, err := s.competitionRepo.GetByExternalID(ctx, leagueExternalID)
	if err != nil {
		return []StageRowResult{{ID: leagueExternalID, Status: stageStatusFailed, Message: fmt.Sprintf("load competition: %v", err)}}
	}
	if !found {
		return []StageRowResult{{ID: leagueExternalID, Status: stageStatusFailed, Message: "competition is not tracked"}}
	}

	summaries, err := s.source.FetchLeagueMatchSummaries(ctx, leagueExternalID)
	if err != nil {
		return []StageRowResult{{ID: leagueExternalID, Status: stageStatusFailed, Message: fmt.Sprintf("fetch league matches: %v", err)}}
	}

	tours, err := s.competitionRepo.ListToursByCompetition(ctx, comp.ID)
	if err != nil {
		return []StageRowResult{{ID: leagueExternalID, Status: stageStatusFailed, Message: fmt.Sprintf("list tours: %v", err)}}
	}

	rows := make([]StageRowResult, 0, len(summaries))
	for _, summary := range summaries {
		rows = append(rows, s.registerMatch(ctx, comp, tours, summary))
	}
	return rows
}

func (s *PipelineService) registerMatch(ctx context.Context, comp competition.Competition, tours []competition.Tour, summary MatchSummary) StageRowResult {
	row := StageRowResult{ID: summary.ExternalID}

	ignored, err := s.ignoreRepo.IsIgnored(ctx, summary.ExternalID)
	if err != nil {
		row.Status = stageStatusFailed
		row.Message = fmt.Sprintf("check denylist: %v", err)
		return row
	}
	if ignored {
		row.Status = stageStatusSkipped
		row.Message = "match is on the denylist"
		return row
	}

	exists, err := s.matchRepo.ExistsByExternalID(ctx, summary.ExternalID)
	if err != nil {
		row.Status = stageStatusFailed
		row.Message = fmt.Sprintf("check registry: %v", err)
		return row
	}
	if exists {
		row.Status = stageStatusSkipped
		row.Message = "match is already registered"
		return row
	}

	item := match.Match{
		ExternalID:    summary.ExternalID,
		CompetitionID: &comp.ID,
		StartedAt:     summary.StartedAt.UTC(),
		IsFilled:      true,
	}

	if tour, ok := competition.ClassifyTour(tours, summary.StartedAt); ok {
		tourID := tour.ID
		item.TourID = &tourID
	}

	item.RadiantTeamID = s.resolveTeamID(ctx, summary.RadiantTeamExternalID)
	item.DireTeamID = s.resolveTeamID(ctx, summary.DireTeamExternalID)

	if summary.SeriesExternalID > 0 {
		series, err := s.ensureSeries(ctx, comp, item.TourID, summary)
		if err != nil {
			row.Status = stageStatusFailed
			row.Message = fmt.Sprintf("ensure series: %v", err)
			return row
		}
		seriesID := series.ID
		item.SeriesID = &seriesID
	}

	if _, err := s.matchRepo.Create(ctx, item); err != nil {
		row.Status = stageStatusFailed
		row.Message = fmt.Sprintf("create match: %v", err)
		return row
	}

	row.Status = stageStatusProcessed
	return row
}

func (s *PipelineService) resolveTeamID(ctx context.Context, teamExternalID int64) *int64 {
	if teamExternalID <= 0 {
		return nil
	}
	item, found, err := s.teamRepo.GetByExternalID(ctx, teamExternalID)
	if err != nil {
		s.logger.WarnContext(ctx, "resolve team failed", "team_external_id", teamExternalID, "error", err)
		return nil
	}
	if !found {
		return nil
	}
	id := item.ID
	return &id
}

// ensureSeries gets or creates the series row for the summary. The repository
// keeps create idempotent on the external id, so concurrent registrations of
// sibling matches settle on one row and the first writer's fields win.
func (s *PipelineService) ensureSeries(ctx context.Context, comp competition.Competition, tourID *int64, summary MatchSummary) (match.Series, error) {
	existing, found, err := s.seriesRepo.GetByExternalID(ctx, summary.SeriesExternalID)
	if err != nil {
		return match.Series{}, err
	}
	if found {
		return existing, nil
	}

	compID := comp.ID
	created, err := s.seriesRepo.Create(ctx, match.Series{
		ExternalID:    summary.SeriesExternalID,
		Format:        match.FormatFromSeriesType(summary.SeriesType),
		CompetitionID: &compID,
		TourID:        tourID,
	})
	if err != nil {
		return match.Series{}, err
	}
	return created, nil
}

// FetchDetails downloads and stores the full detail payload for each match.
// Successive provider calls are paced by the same fixed delay that spaces
// retries. A payload missing the winner or any formula stat does not count:
// the fetch is retried, and on exhaustion the match stays unparsed for a
// later run.
func (s *PipelineService) FetchDetails(ctx context.Context, matchIDs []int64) (StageResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PipelineService.FetchDetails")
	defer span.End()

	if len(matchIDs) == 0 {
		return StageResult{}, fmt.Errorf("%w: match ids are required", ErrInvalidInput)
	}

	matches, err := s.matchRepo.ListByIDs(ctx, matchIDs)
	if err != nil {
		return StageResult{}, fmt.Errorf("list matches: %w", err)
	}

	result := StageResult{Requested: len(matchIDs)}
	byID := matchesByID(matches)
	requiredStats := s.formula.Stats()

	fetched := false
	for _, id := range matchIDs {
		item, ok := byID[id]
		if !ok {
			result.add(StageRowResult{ID: id, Status: stageStatusFailed, Message: "match is not registered"})
			continue
		}
		if item.IsParsed {
			result.add(StageRowResult{ID: id, Status: stageStatusSkipped, Message: "detail is already stored"})
			continue
		}

		if fetched {
			if sleepErr := s.sleep(ctx, s.cfg.DetailRetryDelay); sleepErr != nil {
				return result, sleepErr
			}
		}
		fetched = true

		row, err := s.fetchDetailOnce(ctx, item, requiredStats)
		if err != nil {
			return result, err
		}
		result.add(row)
	}
	return result, nil
}

func (s *PipelineService) fetchDetailOnce(ctx context.Context, item match.Match, requiredStats []string) (StageRowResult, error) {
	row := StageRowResult{ID: item.ID}

	for attempt := 1; attempt <= s.cfg.DetailAttempts; attempt++ {
		raw, ok, err := s.source.FetchMatchDetail(ctx, item.ExternalID)
		if err != nil {
			if ctx.Err() != nil {
				return StageRowResult{}, ctx.Err()
			}
			row.Status = stageStatusFailed
			row.Message = fmt.Sprintf("fetch detail: %v", err)
			return row, nil
		}

		if ok {
			payload, decodeErr := decodeMatchDetail(raw)
			if decodeErr != nil {
				row.Status = stageStatusFailed
				row.Message = fmt.Sprintf("decode detail: %v", decodeErr)
				return row, nil
			}
			if isDetailComplete(payload, requiredStats) {
				item.DetailRaw = raw
				item.IsParsed = true
				if updateErr := s.matchRepo.Update(ctx, item); updateErr != nil {
					row.Status = stageStatusFailed
					row.Message = fmt.Sprintf("store detail: %v", updateErr)
					return row, nil
				}
				row.Status = stageStatusProcessed
				return row, nil
			}
		}

		if attempt == s.cfg.DetailAttempts {
			break
		}
		if sleepErr := s.sleep(ctx, s.cfg.DetailRetryDelay); sleepErr != nil {
			return StageRowResult{}, sleepErr
		}
	}

	s.logger.WarnContext(ctx, "match detail incomplete after retries", "match_id", item.ID, "match_external_id", item.ExternalID, "attempts", s.cfg.DetailAttempts)
	row.Status = stageStatusSkipped
	row.Message = "detail payload incomplete, will retry on a later run"
	return row, nil
}

// RateMatches computes the per-player fantasy breakdowns from the stored
// detail payloads. Players missing from the reference data are skipped, not
// failed: community-stand-in accounts are common in upstream payloads.
func (s *PipelineService) RateMatches(ctx context.Context, matchIDs []int64) (StageResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PipelineService.RateMatches")
	defer span.End()

	if len(matchIDs) == 0 {
		return StageResult{}, fmt.Errorf("%w: match ids are required", ErrInvalidInput)
	}

	matches, err := s.matchRepo.ListByIDs(ctx, matchIDs)
	if err != nil {
		return StageResult{}, fmt.Errorf("list matches: %w", err)
	}

	result := StageResult{Requested: len(matchIDs)}
	byID := matchesByID(matches)

	for _, id := range matchIDs {
		item, ok := byID[id]
		if !ok {
			result.add(StageRowResult{ID: id, Status: stageStatusFailed, Message: "match is not registered"})
			continue
		}
		if item.IsRated {
			result.add(StageRowResult{ID: id, Status: stageStatusSkipped, Message: "match is already rated"})
			continue
		}
		result.add(s.rateMatch(ctx, item))
	}
	return result, nil
}

func (s *PipelineService) rateMatch(ctx context.Context, item match.Match) StageRowResult {
	row := StageRowResult{ID: item.ID}

	if len(item.DetailRaw) == 0 {
		row.Status = stageStatusFailed
		row.Message = "detail payload is missing"
		return row
	}

	payload, err := decodeMatchDetail(item.DetailRaw)
	if err != nil {
		row.Status = stageStatusFailed
		row.Message = fmt.Sprintf("decode detail: %v", err)
		return row
	}
	if payload.RadiantWin == nil {
		row.Status = stageStatusFailed
		row.Message = "detail payload has no winner"
		return row
	}

	results := make(scoring.MatchResult, len(payload.Players))
	for _, entry := range payload.Players {
		accountID := playerAccountID(entry)
		if accountID <= 0 {
			continue
		}
		known, found, err := s.playerRepo.GetByExternalID(ctx, accountID)
		if err != nil {
			row.Status = stageStatusFailed
			row.Message = fmt.Sprintf("resolve player account_id=%d: %v", accountID, err)
			return row
		}
		if !found {
			continue
		}

		stats := make(map[string]float64, s.formula.Len())
		for _, stat := range s.formula.Stats() {
			stats[stat] = statValue(entry, stat)
		}
		won := playerIsRadiant(entry) == *payload.RadiantWin
		results[known.ExternalID] = scoring.ScorePlayerMatch(stats, known.Role.Class(), s.formula, won)
	}

	item.Results = results
	item.IsRated = true
	if err := s.matchRepo.Update(ctx, item); err != nil {
		row.Status = stageStatusFailed
		row.Message = fmt.Sprintf("store ratings: %v", err)
		return row
	}

	row.Status = stageStatusProcessed
	return row
}

// SaveToPlayers copies each rated match's totals into the durable per-player
// ledger. The upsert keeps re-runs and re-ratings idempotent.
func (s *PipelineService) SaveToPlayers(ctx context.Context, matchIDs []int64) (StageResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PipelineService.SaveToPlayers")
	defer span.End()

	if len(matchIDs) == 0 {
		return StageResult{}, fmt.Errorf("%w: match ids are required", ErrInvalidInput)
	}

	matches, err := s.matchRepo.ListByIDs(ctx, matchIDs)
	if err != nil {
		return StageResult{}, fmt.Errorf("list matches: %w", err)
	}

	result := StageResult{Requested: len(matchIDs)}
	byID := matchesByID(matches)

	for _, id := range matchIDs {
		item, ok := byID[id]
		if !ok {
			result.add(StageRowResult{ID: id, Status: stageStatusFailed, Message: "match is not registered"})
			continue
		}
		if item.IsSavedToPlayers {
			result.add(StageRowResult{ID: id, Status: stageStatusSkipped, Message: "match is already saved"})
			continue
		}
		result.add(s.saveMatchToPlayers(ctx, item))
	}
	return result, nil
}

func (s *PipelineService) saveMatchToPlayers(ctx context.Context, item match.Match) StageRowResult {
	row := StageRowResult{ID: item.ID}

	if !item.IsRated {
		row.Status = stageStatusFailed
		row.Message = "match is not rated yet"
		return row
	}

	accountIDs := make([]int64, 0, len(item.Results))
	for accountID := range item.Results {
		accountIDs = append(accountIDs, accountID)
	}
	sort.Slice(accountIDs, func(i, j int) bool { return accountIDs[i] < accountIDs[j] })

	for _, accountID := range accountIDs {
		known, found, err := s.playerRepo.GetByExternalID(ctx, accountID)
		if err != nil {
			row.Status = stageStatusFailed
			row.Message = fmt.Sprintf("resolve player account_id=%d: %v", accountID, err)
			return row
		}
		if !found {
			row.Status = stageStatusFailed
			row.Message = fmt.Sprintf("resolve player account_id=%d: player is gone", accountID)
			return row
		}

		breakdown := item.Results[accountID]
		err = s.resultRepo.Upsert(ctx, player.MatchResult{
			PlayerID: known.ID,
			MatchID:  item.ID,
			Result:   breakdown.Total(),
		})
		if err != nil {
			row.Status = stageStatusFailed
			row.Message = fmt.Sprintf("upsert ledger row player_id=%d: %v", known.ID, err)
			return row
		}
	}

	item.IsSavedToPlayers = true
	if err := s.matchRepo.Update(ctx, item); err != nil {
		row.Status = stageStatusFailed
		row.Message = fmt.Sprintf("mark match saved: %v", err)
		return row
	}

	row.Status = stageStatusProcessed
	return row
}

// IgnoreMatches adds upstream match ids to the permanent denylist. Already
// registered matches are left in place; the denylist only blocks future
// registration.
func (s *PipelineService) IgnoreMatches(ctx context.Context, matchExternalIDs []int64) (StageResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PipelineService.IgnoreMatches")
	defer span.End()

	if len(matchExternalIDs) == 0 {
		return StageResult{}, fmt.Errorf("%w: match ids are required", ErrInvalidInput)
	}

	result := StageResult{Requested: len(matchExternalIDs)}
	for _, externalID := range matchExternalIDs {
		row := StageRowResult{ID: externalID}
		ignored, err := s.ignoreRepo.IsIgnored(ctx, externalID)
		if err != nil {
			row.Status = stageStatusFailed
			row.Message = fmt.Sprintf("check denylist: %v", err)
			result.add(row)
			continue
		}
		if ignored {
			row.Status = stageStatusSkipped
			row.Message = "match is already on the denylist"
			result.add(row)
			continue
		}
		if err := s.ignoreRepo.Add(ctx, externalID); err != nil {
			row.Status = stageStatusFailed
			row.Message = fmt.Sprintf("add to denylist: %v", err)
			result.add(row)
			continue
		}
		row.Status = stageStatusProcessed
		result.add(row)
	}
	return result, nil
}

func matchesByID(items []match.Match) map[int64]match.Match {
	out := make(map[int64]match.Match, len(items))
	for _, item := range items {
		out[item.ID] = item
	}
	return out
}
