package httpapi

import (
	"net/http"

	"github.com/riskibarqy/arena-streams/internal/observability"
	"github.com/riskibarqy/arena-streams/internal/platform/logging"
)

type RouterConfig struct {
	CORSAllowedOrigins    []string
	ContentSecurityPolicy string
	Metrics               *observability.Metrics
	// MetricsEnabled mounts GET /metrics.
	MetricsEnabled bool
}

func NewRouter(handler *Handler, logger *logging.Logger, cfg RouterConfig) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, cfg)
	registerAPIRoutes(mux, handler)
	registerPageRoutes(mux, handler)

	return RequestTracing(
		RequestID(
			RequestLogging(logger,
				SecurityHeaders(cfg.ContentSecurityPolicy,
					CORS(cfg.CORSAllowedOrigins,
						recoverPanic(logger,
							ObserveRequests(cfg.Metrics, mux)))))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.ErrorContext(ctx, "panic recovered", "panic", rec, "path", r.URL.Path)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
