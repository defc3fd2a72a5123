package streamed

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/arena-streams/internal/domain/match"
	"github.com/riskibarqy/arena-streams/internal/observability"
	"github.com/riskibarqy/arena-streams/internal/platform/logging"
	"github.com/riskibarqy/arena-streams/internal/platform/resilience"
	"github.com/riskibarqy/arena-streams/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultBaseURL   = "https://streamed.pk"
	defaultUserAgent = "ArenaStreams-API/1.0"
	defaultTimeout   = 8 * time.Second
	maxResponseBytes = 6 << 20

	resourceSports      = "sports"
	resourceMatches     = "matches"
	resourceStream      = "stream"
	resourceStreamEmbed = "stream_embed"
)

var errStreamedTransient = crerr.New("streamed transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	UserAgent      string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	Metrics        *observability.Metrics
}

// Client reads the streamed.pk schedule API. Every call is a single attempt:
// failures surface as *usecase.UpstreamError and are never retried.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	userAgent      string
	timeout        time.Duration
	logger         *logging.Logger
	metrics        *observability.Metrics
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight[[]byte]
}

var _ match.Provider = (*Client)(nil)

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
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)
	recordState := cfg.Metrics.CircuitListener()
	breaker := resilience.NewCircuitBreaker("streamed", breakerCfg,
		resilience.WithStateListener(func(name string, from, to resilience.CircuitState) {
			recordState(name, from, to)
			logger.Warn("streamed circuit breaker state changed", "from", from, "to", to)
		}),
	)
	cfg.Metrics.SetCircuitState(breaker.Name(), breaker.State())

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		userAgent:      userAgent,
		timeout:        timeout,
		logger:         logger,
		metrics:        cfg.Metrics,
		breaker:        breaker,
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchSports returns the upstream sports list unchanged.
func (c *Client) FetchSports(ctx context.Context) ([]byte, error) {
	return c.get(ctx, resourceSports, "/api/sports")
}

// FetchMatches returns the records of one sport feed. The key is forwarded
// as given; the provider decides whether it exists.
func (c *Client) FetchMatches(ctx context.Context, sport string) ([]match.RawMatch, error) {
	raw, err := c.get(ctx, resourceMatches, "/api/matches/"+url.PathEscape(sport))
	if err != nil {
		return nil, err
	}

	list, err := match.ParseMatchList(raw)
	if err != nil {
		return nil, &usecase.UpstreamError{Resource: resourceMatches, Err: crerr.Wrapf(err, "sport %s", sport)}
	}

	if list.Shape == match.ShapeMalformed || list.Skipped > 0 {
		c.logger.DebugContext(ctx, "streamed match payload recovered",
			"sport", sport,
			"shape", list.Shape,
			"records", len(list.Items),
			"skipped", list.Skipped,
		)
	}
	return list.Items, nil
}

// FetchStream returns the stream descriptors of one source unchanged.
func (c *Client) FetchStream(ctx context.Context, source, id string) ([]byte, error) {
	return c.get(ctx, resourceStream, "/api/stream/"+url.PathEscape(source)+"/"+url.PathEscape(id))
}

// FetchStreamEmbed returns the embed descriptor of a stream unchanged.
func (c *Client) FetchStreamEmbed(ctx context.Context, id string) ([]byte, error) {
	return c.get(ctx, resourceStreamEmbed, "/api/stream/embed/"+url.PathEscape(id))
}

// get performs one GET shared by every concurrent caller of the same path.
// The shared request runs detached from the callers' cancellation and is
// bounded by the client timeout; a caller whose context ends stops waiting
// without affecting the others or the circuit breaker.
func (c *Client) get(ctx context.Context, resource, path string) ([]byte, error) {
	flightCtx := context.WithoutCancel(ctx)
	result := c.flight.DoChan(path, func() ([]byte, error) {
		return c.fetch(flightCtx, resource, path)
	})

	select {
	case res := <-result:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, &usecase.UpstreamError{Resource: resource, Err: crerr.Wrap(ctx.Err(), "wait for provider response")}
	}
}

// fetch runs a single guarded request. Admission and outcome are recorded
// here, once per request, so callers joining the flight never hold a
// half-open slot. Bodies are served or decoded as JSON, so a 2xx body that
// does not parse is an upstream failure too.
func (c *Client) fetch(ctx context.Context, resource, path string) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.metrics.ObserveUpstream(resource, observability.OutcomeRejected, 0)
			c.logger.WarnContext(ctx, "streamed circuit breaker rejected request", "resource", resource, "state", c.breaker.State())
			return nil, &usecase.UpstreamError{Resource: resource, Err: crerr.Wrap(err, "schedule provider is temporarily unavailable")}
		}
	}

	started := time.Now()
	raw, status, err := c.executeRequest(ctx, c.baseURL+path)
	if err == nil && !sonic.Valid(raw) {
		err = crerr.Mark(crerr.Newf("decode provider payload: invalid json body=%s", abbreviateBody(raw)), errStreamedTransient)
	}
	c.metrics.ObserveUpstream(resource, outcomeOf(status, err), time.Since(started))

	if c.circuitEnabled {
		if isCircuitFailure(err) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	if err != nil {
		c.logger.WarnContext(ctx, "streamed request failed", "resource", resource, "path", path, "status", status, "error", err)
		return nil, &usecase.UpstreamError{Resource: resource, Status: status, Err: err}
	}
	return raw, nil
}

// executeRequest returns the body of a 2xx response. status is 0 when no
// response was received.
func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, 0, crerr.Wrap(err, "build request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if crerr.Is(err, context.Canceled) {
			return nil, 0, crerr.Wrap(err, "send request")
		}
		return nil, 0, crerr.Mark(crerr.Wrap(err, "send request"), errStreamedTransient)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, resp.StatusCode, crerr.Mark(crerr.Wrap(err, "read response body"), errStreamedTransient)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := crerr.Newf("body=%s", abbreviateBody(raw))
		if isTransientStatus(resp.StatusCode) {
			statusErr = crerr.Mark(statusErr, errStreamedTransient)
		}
		return nil, resp.StatusCode, statusErr
	}

	return raw, resp.StatusCode, nil
}

// isCircuitFailure reports whether err says the provider itself is unwell.
// A 404 for an unknown sport or stream is a healthy answer.
func isCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return crerr.Is(err, errStreamedTransient)
}

func isTransientStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func outcomeOf(status int, err error) string {
	switch {
	case err == nil:
		return observability.OutcomeSuccess
	case status != 0 && (status < 200 || status >= 300):
		return observability.OutcomeStatusError
	case status != 0:
		return observability.OutcomeDecodeError
	default:
		return observability.OutcomeTransport
	}
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
