package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/openfantasy/dota-fantasy/internal/domain/match"
	"github.com/openfantasy/dota-fantasy/internal/domain/scoring"
	"github.com/openfantasy/dota-fantasy/internal/infrastructure/repository/memory"
	"github.com/openfantasy/dota-fantasy/internal/platform/logging"
)

type stubMatchSource struct {
	summaries    map[int64][]MatchSummary
	summariesErr error
	details      map[int64][][]byte
	detailCalls  int
}

func (s *stubMatchSource) FetchLeagueMatchSummaries(_ context.Context, leagueExternalID int64) ([]MatchSummary, error) {
	if s.summariesErr != nil {
		return nil, s.summariesErr
	}
	return s.summaries[leagueExternalID], nil
}

func (s *stubMatchSource) FetchMatchDetail(_ context.Context, matchExternalID int64) ([]byte, bool, error) {
	s.detailCalls++
	queue := s.details[matchExternalID]
	if len(queue) == 0 {
		return nil, false, nil
	}
	raw := queue[0]
	if len(queue) > 1 {
		s.details[matchExternalID] = queue[1:]
	}
	return raw, true, nil
}

type pipelineFixture struct {
	svc        *PipelineService
	source     *stubMatchSource
	matchRepo  *memory.MatchRepository
	seriesRepo *memory.SeriesRepository
	ignoreRepo *memory.IgnoreRepository
	resultRepo *memory.PlayerResultRepository
	sleepCalls int
}

func killsOnlyFormula() scoring.Formula {
	formula := scoring.NewFormula()
	formula.Set(scoring.StatKills, scoring.Entry{Sign: scoring.SignPlus, Core: 10, Support: 10})
	return formula
}

func newPipelineFixture(t *testing.T, source *stubMatchSource) *pipelineFixture {
	t.Helper()

	f := &pipelineFixture{
		source:     source,
		matchRepo:  memory.NewMatchRepository(),
		seriesRepo: memory.NewSeriesRepository(),
		ignoreRepo: memory.NewIgnoreRepository(),
		resultRepo: memory.NewPlayerResultRepository(),
	}
	f.svc = NewPipelineService(
		source,
		f.matchRepo,
		f.seriesRepo,
		f.ignoreRepo,
		memory.NewCompetitionRepository(memory.SeedCompetitions(), memory.SeedTours()),
		memory.NewTeamRepository(memory.SeedTeams()),
		memory.NewPlayerRepository(memory.SeedPlayers()),
		f.resultRepo,
		killsOnlyFormula(),
		PipelineConfig{DetailAttempts: 3, DetailRetryDelay: time.Millisecond, RegisterWorkers: 2},
		logging.NewNop(),
	)
	f.svc.sleep = func(context.Context, time.Duration) error {
		f.sleepCalls++
		return nil
	}
	return f
}

func detailPayload(t *testing.T, radiantWin bool, players ...map[string]any) []byte {
	t.Helper()

	raw, err := sonic.Marshal(map[string]any{
		"radiant_win": radiantWin,
		"start_time":  1788307200,
		"players":     players,
	})
	if err != nil {
		t.Fatalf("marshal detail payload: %v", err)
	}
	return raw
}

func detailPlayer(accountID, slot int64, kills float64) map[string]any {
	return map[string]any{
		"account_id":  accountID,
		"player_slot": slot,
		"kills":       kills,
	}
}

func tourOneStart() time.Time {
	return time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC)
}

func TestPipelineService_RegisterMatches(t *testing.T) {
	source := &stubMatchSource{
		summaries: map[int64][]MatchSummary{
			memory.SeedCompetitionExternalID: {
				{ExternalID: 9001, SeriesExternalID: 40, SeriesType: 1, StartedAt: tourOneStart(), RadiantTeamExternalID: 7119388, DireTeamExternalID: 8599101},
				{ExternalID: 9002, SeriesExternalID: 40, SeriesType: 1, StartedAt: tourOneStart().Add(time.Hour), RadiantTeamExternalID: 8599101, DireTeamExternalID: 7119388},
				{ExternalID: 9003, StartedAt: tourOneStart()},
			},
		},
	}
	f := newPipelineFixture(t, source)
	if err := f.ignoreRepo.Add(t.Context(), 9003); err != nil {
		t.Fatalf("seed denylist: %v", err)
	}

	result, err := f.svc.RegisterMatches(t.Context(), []int64{memory.SeedCompetitionExternalID})
	if err != nil {
		t.Fatalf("register matches failed: %v", err)
	}
	if result.Processed != 2 || result.Skipped != 1 || result.Failed != 0 {
		t.Fatalf("unexpected counts: processed=%d skipped=%d failed=%d", result.Processed, result.Skipped, result.Failed)
	}

	first, found, err := f.matchRepo.GetByExternalID(t.Context(), 9001)
	if err != nil || !found {
		t.Fatalf("expected match 9001 to be registered, found=%v err=%v", found, err)
	}
	if !first.IsFilled || first.IsParsed || first.IsRated || first.IsSavedToPlayers {
		t.Fatalf("unexpected flags on fresh match: %+v", first)
	}
	if first.TourID == nil || *first.TourID != memory.SeedTourOneID {
		t.Fatalf("expected match inside tour one, got=%v", first.TourID)
	}
	if first.RadiantTeamID == nil || *first.RadiantTeamID != 1 {
		t.Fatalf("expected radiant team resolved to id=1, got=%v", first.RadiantTeamID)
	}
	if first.SeriesID == nil {
		t.Fatalf("expected series to be assigned")
	}

	second, _, _ := f.matchRepo.GetByExternalID(t.Context(), 9002)
	if second.SeriesID == nil || *second.SeriesID != *first.SeriesID {
		t.Fatalf("expected sibling matches to share one series, got=%v vs %v", second.SeriesID, first.SeriesID)
	}

	series, found, err := f.seriesRepo.GetByID(t.Context(), *first.SeriesID)
	if err != nil || !found {
		t.Fatalf("expected series row, found=%v err=%v", found, err)
	}
	if series.Format != match.FormatBo3 {
		t.Fatalf("expected bo3 series, got=%q", series.Format)
	}
}

func TestPipelineService_RegisterMatches_SecondRunIsNoOp(t *testing.T) {
	source := &stubMatchSource{
		summaries: map[int64][]MatchSummary{
			memory.SeedCompetitionExternalID: {
				{ExternalID: 9001, StartedAt: tourOneStart()},
			},
		},
	}
	f := newPipelineFixture(t, source)

	if _, err := f.svc.RegisterMatches(t.Context(), []int64{memory.SeedCompetitionExternalID}); err != nil {
		t.Fatalf("first register run failed: %v", err)
	}
	result, err := f.svc.RegisterMatches(t.Context(), []int64{memory.SeedCompetitionExternalID})
	if err != nil {
		t.Fatalf("second register run failed: %v", err)
	}
	if result.Processed != 0 || result.Skipped != 1 {
		t.Fatalf("expected re-run to skip everything: %+v", result)
	}
}

func TestPipelineService_RegisterMatches_UntrackedLeagueFails(t *testing.T) {
	f := newPipelineFixture(t, &stubMatchSource{})

	result, err := f.svc.RegisterMatches(t.Context(), []int64{424242})
	if err != nil {
		t.Fatalf("register matches failed: %v", err)
	}
	if result.Failed != 1 {
		t.Fatalf("expected one failed row for untracked league, got %+v", result)
	}
}

func TestPipelineService_RegisterMatches_RequiresLeagueIDs(t *testing.T) {
	f := newPipelineFixture(t, &stubMatchSource{})

	if _, err := f.svc.RegisterMatches(t.Context(), nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPipelineService_FetchDetails_StoresCompletePayload(t *testing.T) {
	f := newPipelineFixture(t, &stubMatchSource{
		details: map[int64][][]byte{
			9001: {detailPayload(t, true, detailPlayer(321580662, 0, 7))},
		},
	})
	created, err := f.matchRepo.Create(t.Context(), match.Match{ExternalID: 9001, IsFilled: true})
	if err != nil {
		t.Fatalf("seed match: %v", err)
	}

	result, err := f.svc.FetchDetails(t.Context(), []int64{created.ID})
	if err != nil {
		t.Fatalf("fetch details failed: %v", err)
	}
	if result.Processed != 1 {
		t.Fatalf("expected one processed row, got %+v", result)
	}

	stored, _, _ := f.matchRepo.GetByExternalID(t.Context(), 9001)
	if !stored.IsParsed || len(stored.DetailRaw) == 0 {
		t.Fatalf("expected detail stored and match parsed: %+v", stored)
	}
}

func TestPipelineService_FetchDetails_RetriesIncompletePayload(t *testing.T) {
	incomplete := detailPayload(t, true, map[string]any{"account_id": 321580662, "player_slot": 0})
	complete := detailPayload(t, true, detailPlayer(321580662, 0, 7))
	f := newPipelineFixture(t, &stubMatchSource{
		details: map[int64][][]byte{9001: {incomplete, complete}},
	})
	created, _ := f.matchRepo.Create(t.Context(), match.Match{ExternalID: 9001, IsFilled: true})

	result, err := f.svc.FetchDetails(t.Context(), []int64{created.ID})
	if err != nil {
		t.Fatalf("fetch details failed: %v", err)
	}
	if result.Processed != 1 {
		t.Fatalf("expected incomplete payload to be retried to success, got %+v", result)
	}
	if f.sleepCalls != 1 {
		t.Fatalf("expected one pacing sleep, got %d", f.sleepCalls)
	}
}

func TestPipelineService_FetchDetails_ExhaustionLeavesMatchUnparsed(t *testing.T) {
	incomplete := detailPayload(t, true, map[string]any{"account_id": 321580662, "player_slot": 0})
	f := newPipelineFixture(t, &stubMatchSource{
		details: map[int64][][]byte{9001: {incomplete}},
	})
	created, _ := f.matchRepo.Create(t.Context(), match.Match{ExternalID: 9001, IsFilled: true})

	result, err := f.svc.FetchDetails(t.Context(), []int64{created.ID})
	if err != nil {
		t.Fatalf("fetch details failed: %v", err)
	}
	if result.Skipped != 1 {
		t.Fatalf("expected exhausted match to be skipped, got %+v", result)
	}

	stored, _, _ := f.matchRepo.GetByExternalID(t.Context(), 9001)
	if stored.IsParsed {
		t.Fatalf("expected match to stay unparsed after exhaustion")
	}
	if f.source.detailCalls != 3 {
		t.Fatalf("expected three fetch attempts, got %d", f.source.detailCalls)
	}
}

func TestPipelineService_FetchDetails_PacesConsecutiveProviderCalls(t *testing.T) {
	f := newPipelineFixture(t, &stubMatchSource{
		details: map[int64][][]byte{
			9001: {detailPayload(t, true, detailPlayer(321580662, 0, 7))},
			9002: {detailPayload(t, false, detailPlayer(127565532, 128, 4))},
		},
	})
	first, _ := f.matchRepo.Create(t.Context(), match.Match{ExternalID: 9001, IsFilled: true})
	second, _ := f.matchRepo.Create(t.Context(), match.Match{ExternalID: 9002, IsFilled: true})

	result, err := f.svc.FetchDetails(t.Context(), []int64{first.ID, second.ID})
	if err != nil {
		t.Fatalf("fetch details failed: %v", err)
	}
	if result.Processed != 2 {
		t.Fatalf("expected both matches processed, got %+v", result)
	}
	if f.sleepCalls != 1 {
		t.Fatalf("expected one pacing sleep between two first-attempt fetches, got %d", f.sleepCalls)
	}
}

func TestPipelineService_FetchDetails_SkipsAlreadyParsed(t *testing.T) {
	f := newPipelineFixture(t, &stubMatchSource{})
	created, _ := f.matchRepo.Create(t.Context(), match.Match{ExternalID: 9001, IsFilled: true, IsParsed: true, DetailRaw: []byte(`{}`)})

	result, err := f.svc.FetchDetails(t.Context(), []int64{created.ID})
	if err != nil {
		t.Fatalf("fetch details failed: %v", err)
	}
	if result.Skipped != 1 || f.source.detailCalls != 0 {
		t.Fatalf("expected parsed match to be skipped without provider calls: %+v calls=%d", result, f.source.detailCalls)
	}
}

func TestPipelineService_RateMatches(t *testing.T) {
	f := newPipelineFixture(t, &stubMatchSource{})
	raw := detailPayload(t, true,
		detailPlayer(321580662, 0, 4),   // Yatoro, radiant, wins
		detailPlayer(127565532, 128, 4), // dyrachyo, dire, loses
		detailPlayer(99999999, 1, 4),    // unknown account, skipped
	)
	created, _ := f.matchRepo.Create(t.Context(), match.Match{ExternalID: 9001, IsFilled: true, IsParsed: true, DetailRaw: raw})

	result, err := f.svc.RateMatches(t.Context(), []int64{created.ID})
	if err != nil {
		t.Fatalf("rate matches failed: %v", err)
	}
	if result.Processed != 1 {
		t.Fatalf("expected one processed row, got %+v", result)
	}

	stored, _, _ := f.matchRepo.GetByExternalID(t.Context(), 9001)
	if !stored.IsRated {
		t.Fatalf("expected match to be rated")
	}
	if len(stored.Results) != 2 {
		t.Fatalf("expected two scored players, got %d", len(stored.Results))
	}
	if got := stored.Results[321580662].Total(); got != 44 {
		t.Fatalf("expected winner total 44.00, got %v", got)
	}
	if got := stored.Results[127565532].Total(); got != 40 {
		t.Fatalf("expected loser total 40.00, got %v", got)
	}
	if _, ok := stored.Results[321580662][scoring.WinBonusKey]; !ok {
		t.Fatalf("expected win bonus line for the winner")
	}
}

func TestPipelineService_RateMatches_SkipsAlreadyRated(t *testing.T) {
	f := newPipelineFixture(t, &stubMatchSource{})
	created, _ := f.matchRepo.Create(t.Context(), match.Match{ExternalID: 9001, IsFilled: true, IsRated: true})

	result, err := f.svc.RateMatches(t.Context(), []int64{created.ID})
	if err != nil {
		t.Fatalf("rate matches failed: %v", err)
	}
	if result.Skipped != 1 {
		t.Fatalf("expected rated match to be skipped, got %+v", result)
	}
}

func TestPipelineService_RateMatches_MissingDetailFails(t *testing.T) {
	f := newPipelineFixture(t, &stubMatchSource{})
	created, _ := f.matchRepo.Create(t.Context(), match.Match{ExternalID: 9001, IsFilled: true})

	result, err := f.svc.RateMatches(t.Context(), []int64{created.ID})
	if err != nil {
		t.Fatalf("rate matches failed: %v", err)
	}
	if result.Failed != 1 {
		t.Fatalf("expected detail-less match to fail, got %+v", result)
	}
}

func TestPipelineService_SaveToPlayers(t *testing.T) {
	f := newPipelineFixture(t, &stubMatchSource{})
	created, _ := f.matchRepo.Create(t.Context(), match.Match{
		ExternalID: 9001,
		IsFilled:   true,
		IsParsed:   true,
		IsRated:    true,
		Results: scoring.MatchResult{
			321580662: scoring.Breakdown{scoring.StatKills: 40, scoring.TotalKey: 44},
			127565532: scoring.Breakdown{scoring.StatKills: 40, scoring.TotalKey: 40},
		},
	})

	result, err := f.svc.SaveToPlayers(t.Context(), []int64{created.ID})
	if err != nil {
		t.Fatalf("save to players failed: %v", err)
	}
	if result.Processed != 1 {
		t.Fatalf("expected one processed row, got %+v", result)
	}

	rows, err := f.resultRepo.ListByPlayerAndMatches(t.Context(), 1, []int64{created.ID})
	if err != nil {
		t.Fatalf("list ledger rows failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Result != 44 {
		t.Fatalf("expected one ledger row with 44.00, got %+v", rows)
	}

	again, err := f.svc.SaveToPlayers(t.Context(), []int64{created.ID})
	if err != nil {
		t.Fatalf("second save run failed: %v", err)
	}
	if again.Skipped != 1 {
		t.Fatalf("expected saved match to be skipped on re-run, got %+v", again)
	}
}

func TestPipelineService_SaveToPlayers_UnratedMatchFails(t *testing.T) {
	f := newPipelineFixture(t, &stubMatchSource{})
	created, _ := f.matchRepo.Create(t.Context(), match.Match{ExternalID: 9001, IsFilled: true})

	result, err := f.svc.SaveToPlayers(t.Context(), []int64{created.ID})
	if err != nil {
		t.Fatalf("save to players failed: %v", err)
	}
	if result.Failed != 1 {
		t.Fatalf("expected unrated match to fail, got %+v", result)
	}
}

func TestPipelineService_IgnoreMatches(t *testing.T) {
	f := newPipelineFixture(t, &stubMatchSource{})

	result, err := f.svc.IgnoreMatches(t.Context(), []int64{9003, 9004})
	if err != nil {
		t.Fatalf("ignore matches failed: %v", err)
	}
	if result.Processed != 2 {
		t.Fatalf("expected two denylist rows, got %+v", result)
	}

	again, err := f.svc.IgnoreMatches(t.Context(), []int64{9003})
	if err != nil {
		t.Fatalf("second ignore run failed: %v", err)
	}
	if again.Skipped != 1 {
		t.Fatalf("expected duplicate denylist entry to be skipped, got %+v", again)
	}

	ignored, err := f.ignoreRepo.IsIgnored(t.Context(), 9004)
	if err != nil || !ignored {
		t.Fatalf("expected 9004 on the denylist, ignored=%v err=%v", ignored, err)
	}
}
