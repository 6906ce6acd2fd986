package api

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/V4T54L/event-admin/internal/adapter/api/handler"
)

// NewAdminRouter creates the router for the operational server: Prometheus
// metrics and a health check that pings the search backend.
func NewAdminRouter(backend handler.Pinger, gatherer prometheus.Gatherer, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	adminHandler := handler.NewAdminHandler(backend, logger)

	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /health", adminHandler.Readiness)

	return mux
}
