package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/openfantasy/dota-fantasy/internal/domain/fantasy"
	"github.com/openfantasy/dota-fantasy/internal/domain/scoring"
	"github.com/openfantasy/dota-fantasy/internal/infrastructure/repository/memory"
	"github.com/openfantasy/dota-fantasy/internal/platform/logging"
	"github.com/openfantasy/dota-fantasy/internal/usecase"
)

const testJobToken = "job-secret"

type staticMatchSource struct {
	summaries map[int64][]usecase.MatchSummary
}

func (s *staticMatchSource) FetchLeagueMatchSummaries(_ context.Context, leagueExternalID int64) ([]usecase.MatchSummary, error) {
	return s.summaries[leagueExternalID], nil
}

func (s *staticMatchSource) FetchMatchDetail(_ context.Context, _ int64) ([]byte, bool, error) {
	return nil, false, nil
}

func newTestRouter(t *testing.T, source usecase.MatchSourceClient) http.Handler {
	t.Helper()

	if source == nil {
		source = &staticMatchSource{}
	}
	matchRepo := memory.NewMatchRepository()
	seriesRepo := memory.NewSeriesRepository()
	resultRepo := memory.NewPlayerResultRepository()
	competitionRepo := memory.NewCompetitionRepository(memory.SeedCompetitions(), memory.SeedTours())
	playerRepo := memory.NewPlayerRepository(memory.SeedPlayers())
	fantasyRepo := memory.NewFantasyRepository(memory.SeedFantasyTeams(), memory.SeedFantasyTeamTours(), memory.SeedFantasySlots())

	pipeline := usecase.NewPipelineService(
		source,
		matchRepo,
		seriesRepo,
		memory.NewIgnoreRepository(),
		competitionRepo,
		memory.NewTeamRepository(memory.SeedTeams()),
		playerRepo,
		resultRepo,
		scoring.DefaultFormula(),
		usecase.PipelineConfig{DetailAttempts: 1, DetailRetryDelay: time.Millisecond},
		logging.NewNop(),
	)
	rollup := usecase.NewRollupService(matchRepo, seriesRepo, resultRepo, competitionRepo, fantasyRepo, 2, logging.NewNop())
	chain := usecase.NewJobChainService(pipeline, rollup, matchRepo, usecase.NewNoopJobQueue(), usecase.JobChainConfig{}, logging.NewNop())
	rating := usecase.NewRatingService(competitionRepo, fantasyRepo, playerRepo, fantasy.DefaultRules())

	handler := NewHandler(chain, pipeline, rating, logging.NewNop())
	return NewRouter(handler, logging.NewNop(), nil, testJobToken)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	return body
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestRouter_InternalJobRequiresToken(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/register-matches", strings.NewReader(`{"league_ids":[16935]}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without token, got %d", rec.Code)
	}
}

func TestRouter_RegisterMatchesJob(t *testing.T) {
	source := &staticMatchSource{
		summaries: map[int64][]usecase.MatchSummary{
			memory.SeedCompetitionExternalID: {
				{ExternalID: 9001, StartedAt: time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC)},
			},
		},
	}
	router := newTestRouter(t, source)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/register-matches", strings.NewReader(`{"league_ids":[16935]}`))
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	body := decodeEnvelope(t, rec)
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %v", body)
	}
	stage, ok := data["stage"].(map[string]any)
	if !ok {
		t.Fatalf("expected stage object, got %v", data)
	}
	if got, _ := stage["processed"].(float64); got != 1 {
		t.Fatalf("expected one processed row, got %v", stage["processed"])
	}
}

func TestRouter_RegisterMatchesJob_RejectsEmptyBody(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/register-matches", strings.NewReader(`{}`))
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for missing league ids, got %d", rec.Code)
	}
}

func TestRouter_CompetitionRating(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/competitions/1/rating", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	body := decodeEnvelope(t, rec)
	rows, ok := body["data"].([]any)
	if !ok {
		t.Fatalf("expected data array, got %v", body)
	}
	if len(rows) != 2 {
		t.Fatalf("expected two seeded teams in rating, got %d", len(rows))
	}
}

func TestRouter_CompetitionRating_UnknownCompetition(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/competitions/424242/rating", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestRouter_CompetitionRating_BadID(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/competitions/abc/rating", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestRouter_PickCheck_ValidationError(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/fantasy/teams/1/pick-check", strings.NewReader(`{"tour_id":1}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for missing player id, got %d", rec.Code)
	}
}
