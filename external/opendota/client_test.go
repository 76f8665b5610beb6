package opendota

import (
	"context"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/openfantasy/dota-fantasy/internal/platform/logging"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

func newTestClient(t *testing.T, handler fasthttp.RequestHandler, maxRetries int) *Client {
	t.Helper()

	listener := fasthttputil.NewInmemoryListener()
	server := &fasthttp.Server{Handler: handler}
	go func() {
		_ = server.Serve(listener)
	}()
	t.Cleanup(func() {
		_ = listener.Close()
	})

	return NewClient(ClientConfig{
		HTTPClient: &fasthttp.Client{
			Dial: func(string) (net.Conn, error) { return listener.Dial() },
		},
		BaseURL:    "http://opendota.test/api",
		MaxRetries: maxRetries,
		RetryDelay: time.Millisecond,
		Logger:     logging.NewNop(),
	})
}

func TestFetchLeagueMatchSummaries_MapsAndSortsRows(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		if string(ctx.Path()) != "/api/leagues/77/matches" {
			ctx.SetStatusCode(fasthttp.StatusNotFound)
			return
		}
		ctx.SetContentType("application/json")
		ctx.SetBodyString(`[
			{"match_id": 902, "series_id": 40, "series_type": 1, "start_time": 1700000300, "radiant_team_id": 11, "dire_team_id": 12},
			{"match_id": 0, "series_id": 40},
			{"match_id": 901, "series_id": 40, "series_type": 1, "start_time": 1700000000, "radiant_team_id": 12, "dire_team_id": 0}
		]`)
	}, 0)

	summaries, err := client.FetchLeagueMatchSummaries(context.Background(), 77)
	if err != nil {
		t.Fatalf("expected no error, got=%v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected two summaries, got=%d", len(summaries))
	}
	if summaries[0].ExternalID != 901 || summaries[1].ExternalID != 902 {
		t.Fatalf("expected rows sorted by match id, got=%d,%d", summaries[0].ExternalID, summaries[1].ExternalID)
	}
	if summaries[0].DireTeamExternalID != 0 {
		t.Fatalf("expected missing dire team to stay zero, got=%d", summaries[0].DireTeamExternalID)
	}
	if summaries[1].SeriesType != 1 {
		t.Fatalf("expected series_type=1, got=%d", summaries[1].SeriesType)
	}
	if got := summaries[1].StartedAt.Unix(); got != 1700000300 {
		t.Fatalf("expected start_time preserved, got=%d", got)
	}
}

func TestFetchMatchDetail_RetriesTransientStatuses(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	client := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		if calls.Add(1) < 3 {
			ctx.SetStatusCode(fasthttp.StatusTooManyRequests)
			return
		}
		ctx.SetContentType("application/json")
		ctx.SetBodyString(`{"match_id": 123, "radiant_win": true, "players": []}`)
	}, 3)

	raw, ok, err := client.FetchMatchDetail(context.Background(), 123)
	if err != nil {
		t.Fatalf("expected no error, got=%v", err)
	}
	if !ok {
		t.Fatalf("expected detail to be fetched after retries")
	}
	if len(raw) == 0 {
		t.Fatalf("expected raw payload bytes")
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected three attempts, got=%d", got)
	}
}

func TestFetchMatchDetail_ExhaustionIsNotFatal(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
	}, 1)

	raw, ok, err := client.FetchMatchDetail(context.Background(), 456)
	if err != nil {
		t.Fatalf("expected exhaustion to report no error, got=%v", err)
	}
	if ok || raw != nil {
		t.Fatalf("expected no payload on exhaustion, got ok=%v raw=%q", ok, raw)
	}
}

func TestFetchMatchDetail_NonRetryableStatusStopsEarly(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	client := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		calls.Add(1)
		ctx.SetStatusCode(fasthttp.StatusNotFound)
	}, 5)

	_, ok, err := client.FetchMatchDetail(context.Background(), 789)
	if err != nil {
		t.Fatalf("expected not-found to be swallowed like exhaustion, got=%v", err)
	}
	if ok {
		t.Fatalf("expected ok=false for not-found match")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected a single attempt for non-retryable status, got=%d", got)
	}
}
