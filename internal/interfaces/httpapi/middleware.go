package httpapi

import (
	"net/http"
	"strings"

	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"
	"github.com/riskibarqy/arena-streams/internal/observability"
	"github.com/riskibarqy/arena-streams/internal/platform/logging"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	requestIDHeader    = "X-Request-ID"
	maxRequestIDLength = 128
)

// RequestID propagates a caller supplied X-Request-ID or mints a new one.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(withRequestID(r.Context(), id)))
	})
}

func RequestLogging(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.RequestLogging")
		defer span.End()

		metrics := httpsnoop.CaptureMetrics(next, w, r.WithContext(ctx))

		logger.InfoContext(ctx, "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", metrics.Code,
			"bytes", metrics.Written,
			"client_ip", resolveClientIP(r),
			"request_id", requestIDFromContext(ctx),
			"duration_ms", metrics.Duration.Milliseconds(),
		)
	})
}

// ObserveRequests records per-route metrics. It must wrap the mux directly:
// the route label is read from r.Pattern, which the mux sets on the request
// it was handed.
func ObserveRequests(m *observability.Metrics, next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured := httpsnoop.CaptureMetrics(next, w, r)
		m.ObserveHTTP(r.Method, r.Pattern, captured.Code, captured.Duration)
	})
}

func RequestTracing(next http.Handler) http.Handler {
	return otelhttp.NewHandler(next, "arena-streams-http",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
		otelhttp.WithFilter(func(r *http.Request) bool {
			return shouldTraceRequest(r.URL.Path)
		}),
	)
}

func shouldTraceRequest(path string) bool {
	normalized := strings.ToLower(strings.TrimSpace(path))
	switch normalized {
	case "/healthz", "/health", "/metrics":
		return false
	default:
		return true
	}
}

// CORS answers preflight requests with 204 and decorates simple requests
// for the configured origins. "*" allows any origin.
func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	origins := make([]string, 0, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if candidate := strings.TrimSpace(origin); candidate != "" {
			origins = append(origins, candidate)
		}
	}

	return cors.New(cors.Options{
		AllowedOrigins:       origins,
		AllowedMethods:       []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:       []string{"Content-Type", "Authorization"},
		MaxAge:               86400,
		OptionsSuccessStatus: http.StatusNoContent,
	}).Handler(next)
}

// SecurityHeaders sets the browser hardening headers on every response.
func SecurityHeaders(contentSecurityPolicy string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := w.Header()
		if contentSecurityPolicy != "" {
			header.Set("Content-Security-Policy", contentSecurityPolicy)
		}
		header.Set("X-Content-Type-Options", "nosniff")
		header.Set("X-Frame-Options", "SAMEORIGIN")
		header.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// ContentSecurityPolicy builds the page policy. Upstream images and stream
// embeds come from third-party hosts, so img-src and frame-src stay open to
// https.
func ContentSecurityPolicy(imageOrigin string, analyticsEnabled bool) string {
	scriptSrc := []string{"'self'", "'unsafe-inline'", "https://cdn.tailwindcss.com"}
	connectSrc := []string{"'self'"}
	if analyticsEnabled {
		scriptSrc = append(scriptSrc, "https://www.googletagmanager.com")
		connectSrc = append(connectSrc, "https://www.google-analytics.com")
	}
	imgSrc := []string{"'self'", "data:", "https:"}
	if imageOrigin = strings.TrimRight(strings.TrimSpace(imageOrigin), "/"); imageOrigin != "" && !strings.HasPrefix(imageOrigin, "https://") {
		imgSrc = append(imgSrc, imageOrigin)
	}

	directives := []string{
		"default-src 'self'",
		"script-src " + strings.Join(scriptSrc, " "),
		"style-src 'self' 'unsafe-inline'",
		"img-src " + strings.Join(imgSrc, " "),
		"connect-src " + strings.Join(connectSrc, " "),
		"frame-src https:",
		"object-src 'none'",
		"base-uri 'self'",
	}
	return strings.Join(directives, "; ")
}
