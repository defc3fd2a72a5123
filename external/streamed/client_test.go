package streamed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/riskibarqy/arena-streams/internal/observability"
	"github.com/riskibarqy/arena-streams/internal/platform/logging"
	"github.com/riskibarqy/arena-streams/internal/platform/resilience"
	"github.com/riskibarqy/arena-streams/internal/usecase"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, breaker resilience.CircuitBreakerConfig) (*Client, *observability.Metrics) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	metrics := observability.NewMetrics()
	client := NewClient(ClientConfig{
		HTTPClient:     server.Client(),
		BaseURL:        server.URL + "/",
		Timeout:        2 * time.Second,
		Logger:         logging.NewNop(),
		CircuitBreaker: breaker,
		Metrics:        metrics,
	})
	return client, metrics
}

func TestClient_FetchMatchesSendsHeadersAndUnwrapsEnvelope(t *testing.T) {
	t.Parallel()

	client, metrics := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/matches/american-football" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("User-Agent"); got != defaultUserAgent {
			t.Errorf("unexpected user agent: %q", got)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("unexpected accept header: %q", got)
		}
		_, _ = w.Write([]byte(`{"value":[{"id":"m-1","title":"Bills vs Jets","date":1893456000000},42]}`))
	}, resilience.DefaultCircuitBreakerConfig())

	items, err := client.FetchMatches(context.Background(), "american-football")
	if err != nil {
		t.Fatalf("fetch matches: %v", err)
	}
	if len(items) != 1 || items[0].ID != "m-1" || items[0].Title != "Bills vs Jets" {
		t.Fatalf("unexpected items: %+v", items)
	}

	count, err := testutil.GatherAndCount(metrics.Gatherer(), "arena_upstream_requests_total")
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one upstream series, got=%d", count)
	}
}

func TestClient_FetchMatchesMalformedShapeIsEmpty(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error":"maintenance"}`))
	}, resilience.DefaultCircuitBreakerConfig())

	items, err := client.FetchMatches(context.Background(), "football")
	if err != nil {
		t.Fatalf("fetch matches: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty list, got=%d", len(items))
	}
}

func TestClient_PassthroughEndpoints(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/sports":
			_, _ = w.Write([]byte(`[{"id":"football","name":"Football"}]`))
		case "/api/stream/alpha/abc 1":
			_, _ = w.Write([]byte(`[{"id":"abc","streamNo":1,"hd":true}]`))
		case "/api/stream/embed/abc":
			_, _ = w.Write([]byte(`{"embedUrl":"https://embed.example/abc"}`))
		default:
			http.NotFound(w, r)
		}
	}, resilience.DefaultCircuitBreakerConfig())

	ctx := context.Background()
	sports, err := client.FetchSports(ctx)
	if err != nil {
		t.Fatalf("fetch sports: %v", err)
	}
	if string(sports) != `[{"id":"football","name":"Football"}]` {
		t.Fatalf("expected verbatim sports body, got %s", sports)
	}

	stream, err := client.FetchStream(ctx, "alpha", "abc 1")
	if err != nil {
		t.Fatalf("fetch stream: %v", err)
	}
	if string(stream) != `[{"id":"abc","streamNo":1,"hd":true}]` {
		t.Fatalf("expected verbatim stream body, got %s", stream)
	}

	embed, err := client.FetchStreamEmbed(ctx, "abc")
	if err != nil {
		t.Fatalf("fetch embed: %v", err)
	}
	if string(embed) != `{"embedUrl":"https://embed.example/abc"}` {
		t.Fatalf("expected verbatim embed body, got %s", embed)
	}
}

func TestClient_NonSuccessStatusIsUpstreamError(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("bad gateway"))
	}, resilience.DefaultCircuitBreakerConfig())

	_, err := client.FetchSports(context.Background())
	if !errors.Is(err, usecase.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}

	var upstreamErr *usecase.UpstreamError
	if !errors.As(err, &upstreamErr) {
		t.Fatalf("expected *UpstreamError, got %T", err)
	}
	if upstreamErr.Resource != resourceSports || upstreamErr.Status != http.StatusBadGateway {
		t.Fatalf("unexpected upstream error: resource=%s status=%d", upstreamErr.Resource, upstreamErr.Status)
	}
}

func TestClient_InvalidJSONIsUpstreamError(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>challenge</html>"))
	}, resilience.DefaultCircuitBreakerConfig())

	if _, err := client.FetchStream(context.Background(), "alpha", "abc"); !errors.Is(err, usecase.ErrUpstream) {
		t.Fatalf("expected ErrUpstream for html body, got %v", err)
	}
	if _, err := client.FetchMatches(context.Background(), "football"); !errors.Is(err, usecase.ErrUpstream) {
		t.Fatalf("expected ErrUpstream for html match list, got %v", err)
	}
}

func TestClient_CircuitOpensOnTransientFailures(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	client, metrics := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	})

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := client.FetchMatches(ctx, "tennis"); err == nil {
			t.Fatalf("expected failure on attempt %d", i+1)
		}
	}

	_, err := client.FetchMatches(ctx, "tennis")
	if !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Fatalf("expected open circuit, got %v", err)
	}
	if !errors.Is(err, usecase.ErrUpstream) {
		t.Fatalf("expected rejection to be an upstream error, got %v", err)
	}
	if got := hits.Load(); got != 2 {
		t.Fatalf("expected 2 upstream hits, got=%d", got)
	}

	expected := `
# HELP arena_upstream_circuit_state Circuit breaker state per dependency: 0 closed, 1 half-open, 2 open.
# TYPE arena_upstream_circuit_state gauge
arena_upstream_circuit_state{dependency="streamed"} 2
`
	if err := testutil.GatherAndCompare(metrics.Gatherer(), strings.NewReader(expected), "arena_upstream_circuit_state"); err != nil {
		t.Fatalf("circuit state gauge: %v", err)
	}
}

func TestClient_ConcurrentCallersShareOneRequest(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	arrived := make(chan struct{}, 1)
	release := make(chan struct{})
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		arrived <- struct{}{}
		<-release
		_, _ = w.Write([]byte(`[{"id":"football","name":"Football"}]`))
	}, resilience.DefaultCircuitBreakerConfig())

	const callers = 5
	errs := make(chan error, callers)
	go func() {
		_, err := client.FetchSports(context.Background())
		errs <- err
	}()
	<-arrived
	for i := 1; i < callers; i++ {
		go func() {
			_, err := client.FetchSports(context.Background())
			errs <- err
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)

	for i := 0; i < callers; i++ {
		if err := <-errs; err != nil {
			t.Fatalf("fetch sports: %v", err)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("expected one upstream request, got=%d", got)
	}
}

func TestClient_HalfOpenSharedFlightRecoversToClosed(t *testing.T) {
	t.Parallel()

	var failing atomic.Bool
	failing.Store(true)
	arrived := make(chan struct{}, 16)
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if failing.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		select {
		case arrived <- struct{}{}:
		default:
		}
		time.Sleep(30 * time.Millisecond)
		_, _ = w.Write([]byte(`[]`))
	}, resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 1,
		OpenTimeout:      20 * time.Millisecond,
		HalfOpenMaxReq:   2,
	})

	ctx := context.Background()
	if _, err := client.FetchSports(ctx); err == nil {
		t.Fatalf("expected failure while provider is down")
	}
	if got := client.breaker.State(); got != resilience.CircuitStateOpen {
		t.Fatalf("expected open breaker, got=%s", got)
	}

	failing.Store(false)
	time.Sleep(30 * time.Millisecond)

	// Two callers share one half-open trial request.
	errs := make(chan error, 2)
	go func() {
		_, err := client.FetchSports(ctx)
		errs <- err
	}()
	<-arrived
	go func() {
		_, err := client.FetchSports(ctx)
		errs <- err
	}()
	for i := 0; i < 2; i++ {
		if err := <-errs; err != nil {
			t.Fatalf("half-open trial: %v", err)
		}
	}

	for i := 0; i < 3; i++ {
		if _, err := client.FetchSports(ctx); err != nil {
			t.Fatalf("sequential call %d: %v", i+1, err)
		}
	}
	if got := client.breaker.State(); got != resilience.CircuitStateClosed {
		t.Fatalf("expected breaker to close against a healthy provider, got=%s", got)
	}

	sports := []string{"football", "basketball", "tennis", "ufc", "rugby", "baseball", "american-football", "cricket", "motor-sports", "hockey"}
	failures := make(chan error, len(sports))
	for _, key := range sports {
		go func() {
			_, err := client.FetchMatches(ctx, key)
			failures <- err
		}()
	}
	for range sports {
		if err := <-failures; err != nil {
			t.Fatalf("fan-out against a healthy provider: %v", err)
		}
	}
}

func TestClient_CallerCancellationDoesNotAffectSharedFlight(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	arrived := make(chan struct{}, 1)
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		arrived <- struct{}{}
		time.Sleep(100 * time.Millisecond)
		_, _ = w.Write([]byte(`{"embedUrl":"https://embed.example/abc"}`))
	}, resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 1,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	})

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := client.FetchStreamEmbed(leaderCtx, "abc")
		leaderErr <- err
	}()
	<-arrived

	joinerResult := make(chan error, 1)
	go func() {
		body, err := client.FetchStreamEmbed(context.Background(), "abc")
		if err == nil && string(body) != `{"embedUrl":"https://embed.example/abc"}` {
			err = errors.New("unexpected body " + string(body))
		}
		joinerResult <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	if err := <-leaderErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancelled leader, got %v", err)
	}
	if err := <-joinerResult; err != nil {
		t.Fatalf("joined caller failed: %v", err)
	}
	if got := client.breaker.State(); got != resilience.CircuitStateClosed {
		t.Fatalf("caller cancellation must not trip the breaker, got=%s", got)
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("expected one upstream request, got=%d", got)
	}
}

func TestClient_NotFoundDoesNotTripCircuit(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}, resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 1,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	})

	for i := 0; i < 3; i++ {
		if _, err := client.FetchStreamEmbed(context.Background(), "missing"); !errors.Is(err, usecase.ErrUpstream) {
			t.Fatalf("expected upstream error, got %v", err)
		}
	}
	if got := hits.Load(); got != 3 {
		t.Fatalf("expected every request to reach upstream, got=%d", got)
	}
}

func TestClient_TimeoutIsUpstreamError(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	client := NewClient(ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		Timeout:    50 * time.Millisecond,
		Logger:     logging.NewNop(),
	})

	_, err := client.FetchSports(context.Background())
	var upstreamErr *usecase.UpstreamError
	if !errors.As(err, &upstreamErr) {
		t.Fatalf("expected *UpstreamError, got %v", err)
	}
	if upstreamErr.Status != 0 {
		t.Fatalf("expected no status for timeout, got=%d", upstreamErr.Status)
	}
}

func TestAbbreviateBody(t *testing.T) {
	t.Parallel()

	long := make([]byte, 300)
	for i := range long {
		long[i] = 'x'
	}
	if got := abbreviateBody(long); len(got) != 243 {
		t.Fatalf("expected truncated body of 243 chars, got=%d", len(got))
	}
	if got := abbreviateBody([]byte("  short  ")); got != "short" {
		t.Fatalf("unexpected short body: %q", got)
	}
}
