package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/V4T54L/event-admin/internal/adapter/view"
	"github.com/V4T54L/event-admin/internal/domain"
)

const (
	maxFormBodySize = 1 << 20 // 1MB

	msgListFailed     = "Could not load events from the database."
	msgNotFound       = "Event not found"
	msgFetchFailed    = "Failed to fetch event"
	msgEditFailed     = "Failed to fetch event for editing"
	msgUpdateNotFound = "Event not found for update"
	msgUpdateFailed   = "Failed to update event"
	msgInvalidForm    = "Could not read the submitted form"
	msgUpdated        = "Event updated successfully."
)

// EventService is the set of event operations the handlers orchestrate.
type EventService interface {
	ListEvents(ctx context.Context) ([]domain.StoredEvent, error)
	GetEvent(ctx context.Context, id string) (domain.StoredEvent, bool, error)
	EditForm(ctx context.Context, id string) (domain.FormFields, bool, error)
	UpdateEvent(ctx context.Context, id string, fields domain.FormFields) error
	CreateEvent(ctx context.Context, fields domain.FormFields, image *domain.ImageFile) (domain.Outcome, error)
	RecentSubmissions(ctx context.Context) []domain.Submission
}

// PageRenderer renders a named HTML page.
type PageRenderer interface {
	Render(w http.ResponseWriter, status int, name string, data any) error
}

// EventHandler serves the admin pages and the create endpoint.
type EventHandler struct {
	svc           EventService
	views         PageRenderer
	apiBaseURL    string
	maxUploadSize int64
	logger        *slog.Logger
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(svc EventService, views PageRenderer, apiBaseURL string, maxUploadSize int64, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		svc:           svc,
		views:         views,
		apiBaseURL:    apiBaseURL,
		maxUploadSize: maxUploadSize,
		logger:        logger.With("component", "event_handler"),
	}
}

// Index lists all events. A backend failure still renders the page, with an
// error banner and no events.
// GET /
func (h *EventHandler) Index(w http.ResponseWriter, r *http.Request) {
	data := view.IndexData{Message: indexBanner(r.URL.Query())}

	events, err := h.svc.ListEvents(r.Context())
	if err != nil {
		h.logger.Error("failed to list events", "error", err)
		data.Error = msgListFailed
		events = []domain.StoredEvent{}
	}
	data.Events = events
	data.Recent = h.svc.RecentSubmissions(r.Context())

	h.render(w, http.StatusOK, view.PageIndex, data)
}

func indexBanner(q url.Values) *view.Banner {
	if q.Get("message") == "success" && q.Get("eventId") != "" {
		return &view.Banner{Type: "success", Text: "Event successfully submitted! Event ID: " + q.Get("eventId")}
	}
	if e := q.Get("error"); e != "" {
		return &view.Banner{Type: "error", Text: e}
	}
	return nil
}

// UploadForm renders the create form.
// GET /upload
func (h *EventHandler) UploadForm(w http.ResponseWriter, r *http.Request) {
	data := view.UploadData{APIBaseURL: h.apiBaseURL, MaxUploadSize: h.maxUploadSize}
	if e := r.URL.Query().Get("error"); e != "" {
		data.Message = &view.Banner{Type: "error", Text: e}
	}
	h.render(w, http.StatusOK, view.PageUpload, data)
}

// ViewEvent renders one event.
// GET /event/{id}
func (h *EventHandler) ViewEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	event, found, err := h.svc.GetEvent(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to fetch event", "error", err, "event_id", id)
		h.respondWithError(w, http.StatusInternalServerError, msgFetchFailed)
		return
	}
	if !found {
		h.respondWithError(w, http.StatusNotFound, msgNotFound)
		return
	}

	data := view.DetailData{Event: event}
	if r.URL.Query().Get("message") == "updated" {
		data.Message = &view.Banner{Type: "success", Text: msgUpdated}
	}
	h.render(w, http.StatusOK, view.PageDetail, data)
}

// EditEvent renders the edit form prefilled from the stored event.
// GET /event/{id}/edit
func (h *EventHandler) EditEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	form, found, err := h.svc.EditForm(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to fetch event for editing", "error", err, "event_id", id)
		h.respondWithError(w, http.StatusInternalServerError, msgEditFailed)
		return
	}
	if !found {
		h.respondWithError(w, http.StatusNotFound, msgNotFound)
		return
	}
	h.render(w, http.StatusOK, view.PageEdit, view.EditData{EventID: id, Form: form})
}

// UpdateEvent applies the submitted fields as a partial update. The body is
// URL-encoded or JSON. Every failure re-renders the edit form with the
// values the user entered; JSON clients get a JSON error instead.
// POST /event/{id}
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBodySize)

	fields, err := readFormFields(r)
	if err != nil {
		h.logger.Warn("failed to parse update body", "error", err, "event_id", id)
		h.updateFailed(w, r, http.StatusBadRequest, id, fields, msgInvalidForm)
		return
	}

	err = h.svc.UpdateEvent(r.Context(), id, fields)
	var verr *domain.ValidationError
	switch {
	case err == nil:
		http.Redirect(w, r, "/event/"+url.PathEscape(id)+"?message=updated", http.StatusSeeOther)
	case errors.As(err, &verr):
		h.updateFailed(w, r, http.StatusBadRequest, id, fields, verr.Message)
	case errors.Is(err, domain.ErrNotFound):
		h.updateFailed(w, r, http.StatusNotFound, id, fields, msgUpdateNotFound)
	default:
		h.logger.Error("failed to update event", "error", err, "event_id", id)
		h.updateFailed(w, r, http.StatusInternalServerError, id, fields, msgUpdateFailed)
	}
}

func (h *EventHandler) updateFailed(w http.ResponseWriter, r *http.Request, status int, id string, fields domain.FormFields, msg string) {
	if isJSON(r) {
		h.respondWithError(w, status, msg)
		return
	}
	h.render(w, status, view.PageEdit, view.EditData{EventID: id, Form: fields, Error: msg})
}

// readFormFields collects the body of an update request into flat fields.
// For repeated keys the first value wins.
func readFormFields(r *http.Request) (domain.FormFields, error) {
	fields := domain.FormFields{}
	if isJSON(r) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return fields, fmt.Errorf("invalid JSON body: %w", err)
		}
		for k, v := range body {
			if s, ok := scalarString(v); ok {
				fields[k] = s
			}
		}
		return fields, nil
	}

	if err := r.ParseForm(); err != nil {
		return fields, fmt.Errorf("invalid form body: %w", err)
	}
	for k, vs := range r.PostForm {
		if len(vs) > 0 {
			fields[k] = vs[0]
		}
	}
	return fields, nil
}

// scalarString renders JSON scalars the way a browser would submit them.
func scalarString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		return "", false
	}
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

func (h *EventHandler) render(w http.ResponseWriter, status int, page string, data any) {
	if err := h.views.Render(w, status, page, data); err != nil {
		h.logger.Error("failed to render page", "error", err, "page", page)
		h.respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *EventHandler) respondWithError(w http.ResponseWriter, code int, msg string) {
	h.respondWithJSON(w, code, map[string]string{"error": msg})
}

func (h *EventHandler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, "Internal Server Error")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
