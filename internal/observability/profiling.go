package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/pprof"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/grafana/pyroscope-go"
	"github.com/riskibarqy/arena-streams/internal/config"
	"github.com/riskibarqy/arena-streams/internal/platform/logging"
)

// Profiling owns the optional continuous profiler and the pprof debug
// listener. The zero value is a valid, disabled Profiling.
type Profiling struct {
	logger   *logging.Logger
	profiler *pyroscope.Profiler
	pprof    *http.Server
}

// StartProfiling starts whichever profilers the config enables.
func StartProfiling(cfg config.Config, logger *logging.Logger) (*Profiling, error) {
	if logger == nil {
		logger = logging.Default()
	}
	p := &Profiling{logger: logger}

	if cfg.PyroscopeEnabled {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName:   cfg.PyroscopeAppName,
			ServerAddress:     cfg.PyroscopeServerAddress,
			AuthToken:         cfg.PyroscopeAuthToken,
			BasicAuthUser:     cfg.PyroscopeBasicAuthUser,
			BasicAuthPassword: cfg.PyroscopeBasicAuthPassword,
			UploadRate:        cfg.PyroscopeUploadRate,
			Tags: map[string]string{
				"env":     cfg.AppEnv,
				"service": cfg.ServiceName,
			},
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileAllocObjects,
				pyroscope.ProfileAllocSpace,
				pyroscope.ProfileInuseObjects,
				pyroscope.ProfileInuseSpace,
				pyroscope.ProfileGoroutines,
			},
		})
		if err != nil {
			return nil, crerr.Wrap(err, "start pyroscope")
		}
		p.profiler = profiler
		logger.Info("pyroscope enabled",
			"server_address", cfg.PyroscopeServerAddress,
			"application", cfg.PyroscopeAppName,
		)
	} else {
		logger.Info("pyroscope disabled", "reason", "PYROSCOPE_ENABLED=false")
	}

	if cfg.PprofEnabled {
		p.pprof = &http.Server{
			Addr:              cfg.PprofAddr,
			Handler:           PprofHandler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func(srv *http.Server) {
			logger.Info("pprof server starting", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("pprof server failed", "error", err)
			}
		}(p.pprof)
	} else {
		logger.Info("pprof disabled", "reason", "PPROF_ENABLED=false")
	}

	return p, nil
}

// PprofHandler serves the runtime profiles under /debug/pprof/.
func PprofHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /debug/pprof/", pprof.Index)
	mux.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("POST /debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("GET /debug/pprof/trace", pprof.Trace)
	return mux
}

// Stop shuts down the pprof listener and flushes the profiler.
func (p *Profiling) Stop(ctx context.Context) error {
	if p == nil {
		return nil
	}

	var errs []error
	if p.pprof != nil {
		if err := p.pprof.Shutdown(ctx); err != nil {
			errs = append(errs, crerr.Wrap(err, "stop pprof server"))
		} else if p.logger != nil {
			p.logger.Info("pprof server stopped")
		}
	}
	if p.profiler != nil {
		if err := p.profiler.Stop(); err != nil {
			errs = append(errs, crerr.Wrap(err, "stop pyroscope"))
		}
	}
	return errors.Join(errs...)
}
