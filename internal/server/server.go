package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/haskel/adcfox/internal/charmodel"
	"github.com/haskel/adcfox/internal/config"
	"github.com/haskel/adcfox/internal/estimator"
	"github.com/haskel/adcfox/internal/monitor"
	"github.com/haskel/adcfox/internal/server/middleware"
)

type Server struct {
	httpServer  *http.Server
	config      *config.Config
	logger      *slog.Logger
	version     string
	authConfig  *middleware.AuthConfig
	rateLimiter *middleware.RateLimiter
	process     *monitor.ProcessMonitor

	mu        sync.RWMutex
	estimator *estimator.Estimator
	modelInfo charmodel.Info
}

func New(cfg *config.Config, est *estimator.Estimator, info charmodel.Info, logger *slog.Logger, version string) *Server {
	authConfig := middleware.NewAuthConfig(cfg.Auth.Enabled, cfg.Auth.User, cfg.Auth.Password)
	rateLimiter := middleware.NewRateLimiter(rateLimitConfig(cfg))

	s := &Server{
		config:      cfg,
		logger:      logger,
		version:     version,
		authConfig:  authConfig,
		rateLimiter: rateLimiter,
		estimator:   est,
		modelInfo:   info,
	}

	pm, err := monitor.NewProcessMonitor()
	if err != nil {
		logger.Warn("process monitor unavailable", "error", err)
	} else {
		s.process = pm
	}

	mux := s.setupRoutes()

	handler := middleware.Chain(
		mux,
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logging(logger),
		middleware.Metrics(routePaths(cfg)...),
		middleware.SecurityHeaders(),
		middleware.MaxBody(cfg.Server.MaxBodyBytes),
		middleware.RateLimit(rateLimiter),
		middleware.Auth(authConfig, "/health"), // Exclude /health from auth
	)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ReloadConfig applies the auth and rate limit settings. Host and port
// require a restart; the estimator is replaced separately via SetEstimator.
func (s *Server) ReloadConfig(cfg *config.Config) {
	s.logger.Info("reloading configuration")

	s.authConfig.Update(cfg.Auth.Enabled, cfg.Auth.User, cfg.Auth.Password)
	s.rateLimiter.Update(rateLimitConfig(cfg))

	s.mu.Lock()
	s.config = cfg
	s.mu.Unlock()

	s.logger.Info("configuration reloaded",
		"auth_enabled", cfg.Auth.Enabled,
		"rate_limit_enabled", cfg.Server.RateLimit.Enabled,
	)
}

// SetEstimator swaps in an estimator built from a freshly loaded model.
// In-flight requests finish against the previous one.
func (s *Server) SetEstimator(est *estimator.Estimator, info charmodel.Info) {
	s.mu.Lock()
	s.estimator = est
	s.modelInfo = info
	s.mu.Unlock()

	s.logger.Info("model swapped",
		"path", info.Path,
		"entries", info.Entries,
		"degraded", info.Degraded,
	)
}

func (s *Server) current() (*estimator.Estimator, charmodel.Info) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.estimator, s.modelInfo
}

func (s *Server) Start() error {
	s.logger.Info("server starting",
		"addr", s.httpServer.Addr,
	)
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on l until Shutdown.
func (s *Server) Serve(l net.Listener) error {
	s.logger.Info("server starting",
		"addr", l.Addr().String(),
	)
	return s.httpServer.Serve(l)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}

func rateLimitConfig(cfg *config.Config) middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		Enabled:           cfg.Server.RateLimit.Enabled,
		RequestsPerSecond: cfg.Server.RateLimit.RequestsPerSecond,
		Burst:             cfg.Server.RateLimit.Burst,
	}
}
