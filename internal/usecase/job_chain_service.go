package usecase

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/openfantasy/dota-fantasy/internal/domain/match"
	"github.com/openfantasy/dota-fantasy/internal/platform/logging"
)

// JobQueue enqueues a follow-up pipeline stage for asynchronous delivery.
type JobQueue interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

type noopJobQueue struct{}

func (noopJobQueue) Enqueue(_ context.Context, _ string, _ any, _ time.Duration, _ string) error {
	return nil
}

func NewNoopJobQueue() JobQueue {
	return noopJobQueue{}
}

const (
	jobPathFetchDetails         = "/v1/internal/jobs/fetch-details"
	jobPathRateMatches          = "/v1/internal/jobs/rate-matches"
	jobPathSaveToPlayers        = "/v1/internal/jobs/save-to-players"
	jobPathUpdateFantasyResults = "/v1/internal/jobs/update-fantasy-results"
)

type JobChainConfig struct {
	// RetryDelay postpones the re-fetch of matches whose detail payload
	// came back incomplete.
	RetryDelay time.Duration
	// DedupBucket widens the dedup key time slot so rapid re-triggers of
	// the same stage collapse into one queued job.
	DedupBucket time.Duration
}

func (c JobChainConfig) normalize() JobChainConfig {
	if c.RetryDelay <= 0 {
		c.RetryDelay = 5 * time.Minute
	}
	if c.DedupBucket <= 0 {
		c.DedupBucket = time.Minute
	}
	return c
}

// ChainResult is a stage outcome plus the follow-up jobs queued for it.
type ChainResult struct {
	Stage      StageResult `json:"stage"`
	QueuedJobs []string    `json:"queued_jobs,omitempty"`
}

// RollupChainResult mirrors ChainResult for the terminal aggregation stage,
// which queues nothing.
type RollupChainResult struct {
	Rollup RollupResult `json:"rollup"`
}

// JobChainService runs pipeline stages and queues each successor stage with
// the ids that actually progressed. Queue failures never fail the stage run:
// every stage is re-runnable by hand, so a lost enqueue costs a delay, not
// data.
type JobChainService struct {
	pipeline  *PipelineService
	rollup    *RollupService
	matchRepo match.Repository
	queue     JobQueue
	cfg       JobChainConfig
	logger    *logging.Logger
	now       func() time.Time
}

func NewJobChainService(
	pipeline *PipelineService,
	rollup *RollupService,
	matchRepo match.Repository,
	queue JobQueue,
	cfg JobChainConfig,
	logger *logging.Logger,
) *JobChainService {
	if queue == nil {
		queue = NewNoopJobQueue()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &JobChainService{
		pipeline:  pipeline,
		rollup:    rollup,
		matchRepo: matchRepo,
		queue:     queue,
		cfg:       cfg.normalize(),
		logger:    logger,
		now:       time.Now,
	}
}

// RunRegisterMatches registers the league listings and queues detail fetches
// for the matches created by this run.
func (s *JobChainService) RunRegisterMatches(ctx context.Context, leagueExternalIDs []int64) (ChainResult, error) {
	stage, err := s.pipeline.RegisterMatches(ctx, leagueExternalIDs)
	if err != nil {
		return ChainResult{}, err
	}

	result := ChainResult{Stage: stage}
	externalIDs := rowIDsWithStatus(stage.Rows, stageStatusProcessed)
	if len(externalIDs) == 0 {
		return result, nil
	}

	// Registration rows carry upstream ids; the next stage wants registry ids.
	registered, err := s.matchRepo.ListByExternalIDs(ctx, externalIDs)
	if err != nil {
		s.logger.WarnContext(ctx, "resolve registered matches for chaining failed", "error", err)
		return result, nil
	}
	matchIDs := make([]int64, 0, len(registered))
	for _, item := range registered {
		matchIDs = append(matchIDs, item.ID)
	}

	result.QueuedJobs = s.enqueueIDs(ctx, jobPathFetchDetails, "match_ids", matchIDs, 0, result.QueuedJobs)
	return result, nil
}

// RunFetchDetails fetches detail payloads, queues rating for the stored ones
// and a delayed re-fetch for the incomplete ones.
func (s *JobChainService) RunFetchDetails(ctx context.Context, matchIDs []int64) (ChainResult, error) {
	stage, err := s.pipeline.FetchDetails(ctx, matchIDs)
	if err != nil {
		return ChainResult{}, err
	}

	result := ChainResult{Stage: stage}
	result.QueuedJobs = s.enqueueIDs(ctx, jobPathRateMatches, "match_ids", rowIDsWithStatus(stage.Rows, stageStatusProcessed), 0, result.QueuedJobs)
	result.QueuedJobs = s.enqueueIDs(ctx, jobPathFetchDetails, "match_ids", rowIDsWithStatus(stage.Rows, stageStatusSkipped), s.cfg.RetryDelay, result.QueuedJobs)
	return result, nil
}

// RunRateMatches rates the matches and queues the ledger save for the ones
// rated by this run.
func (s *JobChainService) RunRateMatches(ctx context.Context, matchIDs []int64) (ChainResult, error) {
	stage, err := s.pipeline.RateMatches(ctx, matchIDs)
	if err != nil {
		return ChainResult{}, err
	}

	result := ChainResult{Stage: stage}
	result.QueuedJobs = s.enqueueIDs(ctx, jobPathSaveToPlayers, "match_ids", rowIDsWithStatus(stage.Rows, stageStatusProcessed), 0, result.QueuedJobs)
	return result, nil
}

// RunSaveToPlayers writes the ledger rows and queues the fantasy rollup for
// every tour touched by the saved matches.
func (s *JobChainService) RunSaveToPlayers(ctx context.Context, matchIDs []int64) (ChainResult, error) {
	stage, err := s.pipeline.SaveToPlayers(ctx, matchIDs)
	if err != nil {
		return ChainResult{}, err
	}

	result := ChainResult{Stage: stage}
	saved := rowIDsWithStatus(stage.Rows, stageStatusProcessed)
	if len(saved) == 0 {
		return result, nil
	}

	tourIDs, err := s.toursOfMatches(ctx, saved)
	if err != nil {
		s.logger.WarnContext(ctx, "resolve tours for chaining failed", "error", err)
		return result, nil
	}

	result.QueuedJobs = s.enqueueIDs(ctx, jobPathUpdateFantasyResults, "tour_ids", tourIDs, 0, result.QueuedJobs)
	return result, nil
}

// RunUpdateFantasyResults recomputes the fantasy aggregates. Terminal stage.
func (s *JobChainService) RunUpdateFantasyResults(ctx context.Context, tourIDs []int64) (RollupChainResult, error) {
	rollup, err := s.rollup.UpdateFantasyResults(ctx, tourIDs)
	if err != nil {
		return RollupChainResult{}, err
	}
	return RollupChainResult{Rollup: rollup}, nil
}

func (s *JobChainService) toursOfMatches(ctx context.Context, matchIDs []int64) ([]int64, error) {
	matches, err := s.matchRepo.ListByIDs(ctx, matchIDs)
	if err != nil {
		return nil, err
	}
	seen := make(map[int64]struct{}, len(matches))
	tourIDs := make([]int64, 0, len(matches))
	for _, item := range matches {
		if item.TourID == nil {
			continue
		}
		if _, ok := seen[*item.TourID]; ok {
			continue
		}
		seen[*item.TourID] = struct{}{}
		tourIDs = append(tourIDs, *item.TourID)
	}
	sort.Slice(tourIDs, func(i, j int) bool { return tourIDs[i] < tourIDs[j] })
	return tourIDs, nil
}

func (s *JobChainService) enqueueIDs(ctx context.Context, path, field string, ids []int64, delay time.Duration, queued []string) []string {
	if len(ids) == 0 {
		return queued
	}

	dedupID := s.dedupKey(path, ids, delay)
	payload := map[string]any{
		field:         ids,
		"dispatch_id": dedupID,
	}
	if err := s.queue.Enqueue(ctx, path, payload, delay, dedupID); err != nil {
		s.logger.WarnContext(ctx, "enqueue next stage failed", "path", path, "id_count", len(ids), "error", err)
		return queued
	}
	return append(queued, path)
}

func (s *JobChainService) dedupKey(path string, ids []int64, delay time.Duration) string {
	slot := s.now().UTC().Add(delay).Truncate(s.cfg.DedupBucket).Format("20060102T150405Z")
	name := strings.Trim(path[strings.LastIndexByte(path, '/')+1:], "/")
	return name + "-" + idsFingerprint(ids) + "-" + slot
}

// idsFingerprint keeps the dedup key short for arbitrarily long id lists:
// first id, last id and the count identify one batch well enough within a
// dedup bucket.
func idsFingerprint(ids []int64) string {
	if len(ids) == 0 {
		return "empty"
	}
	first := strconv.FormatInt(ids[0], 10)
	if len(ids) == 1 {
		return first
	}
	last := strconv.FormatInt(ids[len(ids)-1], 10)
	return first + "-" + last + "-n" + strconv.Itoa(len(ids))
}

func rowIDsWithStatus(rows []StageRowResult, status string) []int64 {
	out := make([]int64, 0, len(rows))
	for _, row := range rows {
		if row.Status == status {
			out = append(out, row.ID)
		}
	}
	return out
}
