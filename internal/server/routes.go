package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/haskel/adcfox/internal/config"
)

const (
	pathEnergy          = "/v1/energy"
	pathEnergySupported = "/v1/energy/supported"
	pathArea            = "/v1/area"
	pathAreaSupported   = "/v1/area/supported"
)

func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /", s.handleInfo)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.HandleFunc("GET /model", s.handleModel)
	mux.HandleFunc("GET /status", s.handleStatus)

	mux.HandleFunc("POST "+pathEnergySupported, s.handleEnergySupported)
	mux.HandleFunc("POST "+pathEnergy, s.handleEnergy)
	mux.HandleFunc("POST "+pathAreaSupported, s.handleAreaSupported)
	mux.HandleFunc("POST "+pathArea, s.handleArea)

	if s.config.Metrics.Enabled {
		mux.Handle("GET "+metricsPath(s.config), promhttp.Handler())
	}

	return mux
}

// routePaths lists the paths reported as distinct metric labels.
func routePaths(cfg *config.Config) []string {
	paths := []string{
		"/", "/health", "/ready", "/model", "/status",
		pathEnergySupported, pathEnergy, pathAreaSupported, pathArea,
	}
	if cfg.Metrics.Enabled {
		paths = append(paths, metricsPath(cfg))
	}
	return paths
}

func metricsPath(cfg *config.Config) string {
	if cfg.Metrics.Path == "" {
		return "/metrics"
	}
	return cfg.Metrics.Path
}
