package opendota

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/openfantasy/dota-fantasy/internal/platform/logging"
	"github.com/openfantasy/dota-fantasy/internal/platform/resilience"
	"github.com/openfantasy/dota-fantasy/internal/usecase"
	"github.com/valyala/fasthttp"
)

const (
	defaultBaseURL    = "https://api.opendota.com/api"
	defaultTimeout    = 20 * time.Second
	defaultRetryDelay = time.Second
	maxResponseBytes  = 10 << 20
)

var errOpenDotaTransient = crerr.New("opendota transient failure")

type ClientConfig struct {
	HTTPClient     *fasthttp.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *fasthttp.Client
	baseURL        string
	timeout        time.Duration
	maxRetries     int
	retryDelay     time.Duration
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			MaxConnsPerHost:     64,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: time.Minute,
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		timeout:        timeout,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		retryDelay:     retryDelay,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) FetchLeagueMatchSummaries(ctx context.Context, leagueExternalID int64) ([]usecase.MatchSummary, error) {
	if leagueExternalID <= 0 {
		return nil, fmt.Errorf("league id must be greater than zero")
	}

	path := fmt.Sprintf("/leagues/%d/matches", leagueExternalID)
	var items []leagueMatchItem
	if _, err := c.doJSON(ctx, path, &items); err != nil {
		return nil, fmt.Errorf("fetch league matches league_id=%d: %w", leagueExternalID, err)
	}

	out := make([]usecase.MatchSummary, 0, len(items))
	for _, item := range items {
		if item.MatchID <= 0 {
			continue
		}
		summary := usecase.MatchSummary{
			ExternalID:       item.MatchID,
			SeriesExternalID: item.SeriesID,
			SeriesType:       item.SeriesType,
			StartedAt:        time.Unix(item.StartTime, 0).UTC(),
		}
		if item.RadiantTeamID > 0 {
			summary.RadiantTeamExternalID = item.RadiantTeamID
		}
		if item.DireTeamID > 0 {
			summary.DireTeamExternalID = item.DireTeamID
		}
		out = append(out, summary)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].ExternalID < out[j].ExternalID })
	return out, nil
}

// FetchMatchDetail returns the raw detail payload. Exhausting retries is
// not fatal for the caller: the match stays unparsed and a later run picks
// it up, so the exhaustion case is (nil, false, nil).
func (c *Client) FetchMatchDetail(ctx context.Context, matchExternalID int64) ([]byte, bool, error) {
	if matchExternalID <= 0 {
		return nil, false, fmt.Errorf("match id must be greater than zero")
	}

	path := fmt.Sprintf("/matches/%d", matchExternalID)
	raw, err := c.doJSON(ctx, path, nil)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		if stderrors.Is(err, usecase.ErrDependencyUnavailable) {
			return nil, false, err
		}
		c.logger.WarnContext(ctx, "match detail unavailable after retries", "match_id", matchExternalID, "error", err)
		return nil, false, nil
	}
	return raw, true, nil
}

func (c *Client) doJSON(ctx context.Context, path string, target any) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "opendota circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: match data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.baseURL + path
	out, err, _ := c.flight.Do(path, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && stderrors.Is(reqErr, errOpenDotaTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}

	if target != nil {
		if err := sonic.Unmarshal(raw, target); err != nil {
			return nil, fmt.Errorf("decode provider payload: %w", err)
		}
	}
	return raw, nil
}

// executeRequest retries transient failures with a fixed delay between
// attempts. The provider rate-limits hard, so the delay does not grow.
func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		raw, status, err := c.roundTrip(ctx, fullURL)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errOpenDotaTransient, err)
		} else if status >= 200 && status < 300 {
			return raw, nil
		} else if isRetryableStatus(status) {
			lastErr = fmt.Errorf("%w: provider status=%d body=%s", errOpenDotaTransient, status, abbreviateBody(raw))
		} else {
			return nil, fmt.Errorf("provider status=%d body=%s", status, abbreviateBody(raw))
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(c.retryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "opendota request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) roundTrip(ctx context.Context, fullURL string) ([]byte, int, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := c.httpClient.DoDeadline(req, resp, deadline); err != nil {
		return nil, 0, err
	}

	body := resp.Body()
	if len(body) > maxResponseBytes {
		return nil, resp.StatusCode(), fmt.Errorf("response body exceeds %d bytes", maxResponseBytes)
	}
	raw := make([]byte, len(body))
	copy(raw, body)
	return raw, resp.StatusCode(), nil
}

func isRetryableStatus(status int) bool {
	if status == fasthttp.StatusTooManyRequests || status == fasthttp.StatusRequestTimeout {
		return true
	}
	return status >= 500
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	text := strings.TrimSpace(string(raw))
	if len(text) > limit {
		return text[:limit] + "..."
	}
	return text
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
