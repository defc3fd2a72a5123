package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/riskibarqy/arena-streams/external/streamed"
	"github.com/riskibarqy/arena-streams/internal/config"
	"github.com/riskibarqy/arena-streams/internal/domain/match"
	"github.com/riskibarqy/arena-streams/internal/interfaces/httpapi"
	"github.com/riskibarqy/arena-streams/internal/observability"
	"github.com/riskibarqy/arena-streams/internal/platform/logging"
	"github.com/riskibarqy/arena-streams/internal/platform/resilience"
	"github.com/riskibarqy/arena-streams/internal/usecase"
)

// App owns the HTTP server and the telemetry pipelines started with it.
type App struct {
	Server *http.Server
	Logger *logging.Logger

	profiling       *observability.Profiling
	shutdownTracing observability.ShutdownFunc
}

// New starts tracing and profiling, then builds the HTTP server. The
// returned App.Logger also mirrors entries to Uptrace when log export is on.
func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init uptrace: %w", err)
	}
	if cfg.UptraceEnabled && cfg.UptraceLogsEnabled && cfg.UptraceDSN != "" {
		logger = logger.WithMirror(observability.NewLogMirror(cfg.ServiceVersion))
		logging.SetDefault(logger)
	}

	profiling, err := observability.StartProfiling(cfg, logger)
	if err != nil {
		_ = shutdownTracing(context.Background())
		return nil, fmt.Errorf("start profiling: %w", err)
	}

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.NewMetrics()
	}

	server, err := NewHTTPServer(cfg, logger, metrics)
	if err != nil {
		_ = profiling.Stop(context.Background())
		_ = shutdownTracing(context.Background())
		return nil, err
	}

	return &App{
		Server:          server,
		Logger:          logger,
		profiling:       profiling,
		shutdownTracing: shutdownTracing,
	}, nil
}

func NewHTTPServer(cfg config.Config, logger *logging.Logger, metrics *observability.Metrics) (*http.Server, error) {
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	streamedClient := streamed.NewClient(streamed.ClientConfig{
		BaseURL:   cfg.StreamedBaseURL,
		UserAgent: cfg.StreamedUserAgent,
		Timeout:   cfg.StreamedTimeout,
		Logger:    logger.Named("streamed"),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.StreamedCircuitEnabled,
			FailureThreshold: cfg.StreamedCircuitFailureCount,
			OpenTimeout:      cfg.StreamedCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.StreamedCircuitHalfOpenMaxReq,
		},
		Metrics: metrics,
	})

	matchSvc := usecase.NewMatchService(streamedClient, usecase.MatchServiceConfig{
		Images:         match.ImageURLs{BaseURL: cfg.StreamedBaseURL},
		Keywords:       cfg.FilterKeywords,
		MaxConcurrency: cfg.ResolverMaxConcurrency,
		FetchTimeout:   cfg.ResolverFetchTimeout,
		Logger:         logger.Named("match"),
	})

	handler := httpapi.NewHandler(matchSvc, httpapi.SiteConfig{
		URL:         cfg.SiteURL,
		Name:        cfg.SiteName,
		AnalyticsID: cfg.AnalyticsID,
	}, logger)
	router := httpapi.NewRouter(handler, logger, httpapi.RouterConfig{
		CORSAllowedOrigins:    cfg.CORSAllowedOrigins,
		ContentSecurityPolicy: httpapi.ContentSecurityPolicy(cfg.StreamedBaseURL, cfg.AnalyticsID != ""),
		Metrics:               metrics,
		MetricsEnabled:        cfg.MetricsEnabled,
	})

	return &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, nil
}

// Shutdown drains the HTTP server, then flushes profiles and traces.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if err := a.Server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
	}
	if err := a.profiling.Stop(ctx); err != nil {
		errs = append(errs, fmt.Errorf("stop profiling: %w", err))
	}
	if err := a.shutdownTracing(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown tracing: %w", err))
	}
	return errors.Join(errs...)
}
