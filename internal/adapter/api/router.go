package api

import (
	"log/slog"
	"net/http"

	"github.com/klauspost/compress/gzhttp"

	"github.com/V4T54L/event-admin/internal/adapter/api/handler"
	"github.com/V4T54L/event-admin/internal/adapter/api/middleware"
	"github.com/V4T54L/event-admin/internal/adapter/metrics"
	"github.com/V4T54L/event-admin/internal/adapter/view"
)

// RouterConfig carries the settings the main router needs.
type RouterConfig struct {
	APIBaseURL    string
	MaxUploadSize int64
}

// NewRouter creates and configures the main HTTP router for the admin UI.
func NewRouter(
	cfg RouterConfig,
	logger *slog.Logger,
	svc handler.EventService,
	views handler.PageRenderer,
	backend handler.Pinger,
	m *metrics.AdminMetrics,
) http.Handler {
	mux := http.NewServeMux()

	eventHandler := handler.NewEventHandler(svc, views, cfg.APIBaseURL, cfg.MaxUploadSize, logger)
	adminHandler := handler.NewAdminHandler(backend, logger)

	// Pages
	mux.HandleFunc("GET /{$}", eventHandler.Index)
	mux.HandleFunc("GET /upload", eventHandler.UploadForm)
	mux.HandleFunc("GET /event/{id}", eventHandler.ViewEvent)
	mux.HandleFunc("GET /event/{id}/edit", eventHandler.EditEvent)

	// Mutations
	mux.HandleFunc("POST /event/{id}", eventHandler.UpdateEvent)
	mux.HandleFunc("POST /submit-event", eventHandler.SubmitEvent)

	mux.HandleFunc("GET /health", adminHandler.Liveness)
	mux.Handle("GET /public/", http.StripPrefix("/public", view.Static()))

	var h http.Handler = mux
	if m != nil {
		h = middleware.Metrics(m)(h)
	}
	h = gzhttp.GzipHandler(h)
	h = middleware.Recover(logger)(h)
	h = middleware.Logging(logger)(h)
	return middleware.RequestID(h)
}
