package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/arena-streams/internal/domain/match"
	"github.com/riskibarqy/arena-streams/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                        string
	ServiceName                   string
	ServiceVersion                string
	HTTPAddr                      string
	ReadTimeout                   time.Duration
	WriteTimeout                  time.Duration
	ShutdownTimeout               time.Duration
	LogLevel                      logging.Level
	LogFormat                     string
	CORSAllowedOrigins            []string
	SiteURL                       string
	SiteName                      string
	AnalyticsID                   string
	StreamedBaseURL               string
	StreamedUserAgent             string
	StreamedTimeout               time.Duration
	StreamedCircuitEnabled        bool
	StreamedCircuitFailureCount   int
	StreamedCircuitOpenTimeout    time.Duration
	StreamedCircuitHalfOpenMaxReq int
	ResolverMaxConcurrency        int
	ResolverFetchTimeout          time.Duration
	FilterKeywordsFile            string
	FilterKeywords                match.KeywordSet
	MetricsEnabled                bool
	PprofEnabled                  bool
	PprofAddr                     string
	UptraceEnabled                bool
	UptraceDSN                    string
	UptraceLogsEnabled            bool
	PyroscopeEnabled              bool
	PyroscopeServerAddress        string
	PyroscopeAppName              string
	PyroscopeAuthToken            string
	PyroscopeBasicAuthUser        string
	PyroscopeBasicAuthPassword    string
	PyroscopeUploadRate           time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	logFormatDefault := logging.FormatJSON
	if appEnv == EnvDev {
		logFormatDefault = logging.FormatConsole
	}
	logFormat := strings.ToLower(strings.TrimSpace(getEnv("APP_LOG_FORMAT", logFormatDefault)))
	if logFormat != logging.FormatJSON && logFormat != logging.FormatConsole {
		return Config{}, fmt.Errorf("invalid APP_LOG_FORMAT %q: valid values are %s, %s", logFormat, logging.FormatJSON, logging.FormatConsole)
	}

	readTimeout, err := getEnvAsDuration("APP_READ_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}
	writeTimeout, err := getEnvAsDuration("APP_WRITE_TIMEOUT", "30s")
	if err != nil {
		return Config{}, err
	}
	shutdownTimeout, err := getEnvAsDuration("APP_SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}

	siteURL := strings.TrimRight(strings.TrimSpace(getEnv("SITE_URL", "https://arenastreams.com")), "/")
	if err := validateAbsoluteURL("SITE_URL", siteURL); err != nil {
		return Config{}, err
	}

	streamedBaseURL := strings.TrimRight(strings.TrimSpace(getEnv("STREAMED_BASE_URL", "https://streamed.pk")), "/")
	if err := validateAbsoluteURL("STREAMED_BASE_URL", streamedBaseURL); err != nil {
		return Config{}, err
	}
	streamedTimeout, err := getEnvAsDuration("STREAMED_TIMEOUT", "8s")
	if err != nil {
		return Config{}, err
	}
	streamedCircuitEnabled, err := strconv.ParseBool(getEnv("STREAMED_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STREAMED_CIRCUIT_ENABLED: %w", err)
	}
	streamedCircuitFailureCount, err := getEnvAsInt("STREAMED_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse STREAMED_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if streamedCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("STREAMED_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	streamedCircuitOpenTimeout, err := getEnvAsDuration("STREAMED_CIRCUIT_OPEN_TIMEOUT", "15s")
	if err != nil {
		return Config{}, err
	}
	streamedCircuitHalfOpenMaxReq, err := getEnvAsInt("STREAMED_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse STREAMED_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if streamedCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("STREAMED_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	resolverMaxConcurrency, err := getEnvAsInt("RESOLVER_MAX_CONCURRENCY", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse RESOLVER_MAX_CONCURRENCY: %w", err)
	}
	if resolverMaxConcurrency < 1 {
		return Config{}, fmt.Errorf("RESOLVER_MAX_CONCURRENCY must be >= 1")
	}
	resolverFetchTimeout, err := getEnvAsDuration("RESOLVER_FETCH_TIMEOUT", streamedTimeout.String())
	if err != nil {
		return Config{}, err
	}

	filterKeywordsFile := strings.TrimSpace(getEnv("FILTER_KEYWORDS_FILE", ""))
	filterKeywords, err := LoadKeywordSet(filterKeywordsFile)
	if err != nil {
		return Config{}, err
	}

	metricsEnabled, err := strconv.ParseBool(getEnv("METRICS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse METRICS_ENABLED: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", "15s")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:                        appEnv,
		ServiceName:                   getEnv("APP_SERVICE_NAME", "arena-streams-api"),
		ServiceVersion:                getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                      getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:                   readTimeout,
		WriteTimeout:                  writeTimeout,
		ShutdownTimeout:               shutdownTimeout,
		LogLevel:                      logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		LogFormat:                     logFormat,
		CORSAllowedOrigins:            splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		SiteURL:                       siteURL,
		SiteName:                      strings.TrimSpace(getEnv("SITE_NAME", "ArenaStreams")),
		AnalyticsID:                   strings.TrimSpace(getEnv("ANALYTICS_ID", "")),
		StreamedBaseURL:               streamedBaseURL,
		StreamedUserAgent:             strings.TrimSpace(getEnv("STREAMED_USER_AGENT", "ArenaStreams-API/1.0")),
		StreamedTimeout:               streamedTimeout,
		StreamedCircuitEnabled:        streamedCircuitEnabled,
		StreamedCircuitFailureCount:   streamedCircuitFailureCount,
		StreamedCircuitOpenTimeout:    streamedCircuitOpenTimeout,
		StreamedCircuitHalfOpenMaxReq: streamedCircuitHalfOpenMaxReq,
		ResolverMaxConcurrency:        resolverMaxConcurrency,
		ResolverFetchTimeout:          resolverFetchTimeout,
		FilterKeywordsFile:            filterKeywordsFile,
		FilterKeywords:                filterKeywords,
		MetricsEnabled:                metricsEnabled,
		PprofEnabled:                  pprofEnabled,
		PprofAddr:                     pprofAddr,
		UptraceEnabled:                uptraceEnabled,
		UptraceDSN:                    uptraceDSN,
		UptraceLogsEnabled:            uptraceLogsEnabled,
		PyroscopeEnabled:              pyroscopeEnabled,
		PyroscopeServerAddress:        pyroscopeServerAddress,
		PyroscopeAuthToken:            strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:        strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:    strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:           pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if cfg.SiteName == "" {
		return Config{}, fmt.Errorf("SITE_NAME cannot be empty")
	}
	if cfg.StreamedUserAgent == "" {
		return Config{}, fmt.Errorf("STREAMED_USER_AGENT cannot be empty")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

// getEnvAsDuration parses a positive duration.
func getEnvAsDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(strings.TrimSpace(getEnv(key, fallback)))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
}

func validateAbsoluteURL(key, raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", key, raw)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s must include a host, got %q", key, raw)
	}
	return nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	for _, item := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(parts[1]), "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
