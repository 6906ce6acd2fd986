package view

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/V4T54L/event-admin/internal/domain"
)

func TestRenderer_Render(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("failed to parse templates: %v", err)
	}

	event := domain.StoredEvent{
		DocID: "evt_1",
		Event: domain.Event{
			ID:            "evt_1",
			Title:         "Launch <party>",
			StartTime:     "2025-01-01T10:00:00Z",
			Location:      domain.Location{Name: "HQ", Geo: &domain.Geo{Lat: 1, Lon: 2}},
			OrganizerInfo: domain.OrganizerInfo{Name: "Acme"},
		},
	}

	tests := []struct {
		name     string
		page     string
		data     any
		contains []string
	}{
		{
			name: "Index with banner and feed",
			page: PageIndex,
			data: IndexData{
				Events:  []domain.StoredEvent{event},
				Recent:  []domain.Submission{{EventID: "evt_9", Title: "Fresh", SubmittedAt: time.Now()}},
				Message: &Banner{Type: "success", Text: "Event successfully submitted! Event ID: evt_9"},
			},
			contains: []string{"Launch &lt;party&gt;", `href="/event/evt_1/edit"`, "Event ID: evt_9", "Recently submitted"},
		},
		{
			name:     "Index with error",
			page:     PageIndex,
			data:     IndexData{Events: []domain.StoredEvent{}, Error: "Could not load events from the database."},
			contains: []string{"Could not load events from the database.", "No events found."},
		},
		{
			name:     "Upload form",
			page:     PageUpload,
			data:     UploadData{APIBaseURL: "http://api.test", MaxUploadSize: 1024, Message: &Banner{Type: "error", Text: "bad"}},
			contains: []string{`name="imageFile"`, `data-max-size="1024"`, "/public/js/main.js", "bad"},
		},
		{
			name:     "Detail",
			page:     PageDetail,
			data:     DetailData{Event: event, Message: &Banner{Type: "success", Text: "Event updated successfully."}},
			contains: []string{"Launch &lt;party&gt;", "Event updated successfully.", "(1, 2)"},
		},
		{
			name: "Edit form keeps input",
			page: PageEdit,
			data: EditData{
				EventID: "evt_1",
				Form:    domain.FormFields{"title": "Draft", "media_type": "video"},
				Error:   domain.RequiredFieldsMessage,
			},
			contains: []string{`action="/event/evt_1"`, `value="Draft"`, `value="video" selected`, domain.RequiredFieldsMessage},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			if err := r.Render(rr, http.StatusOK, tt.page, tt.data); err != nil {
				t.Fatalf("render failed: %v", err)
			}
			if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
				t.Errorf("unexpected content type %q", ct)
			}
			body := rr.Body.String()
			for _, want := range tt.contains {
				if !strings.Contains(body, want) {
					t.Errorf("expected body to contain %q", want)
				}
			}
		})
	}
}

func TestRenderer_UnknownPage(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("failed to parse templates: %v", err)
	}
	rr := httptest.NewRecorder()
	if err := r.Render(rr, http.StatusOK, "missing", nil); err == nil {
		t.Fatal("expected error for unknown page")
	}
	if rr.Body.Len() != 0 {
		t.Error("nothing should be written for an unknown page")
	}
}

func TestStatic(t *testing.T) {
	rr := httptest.NewRecorder()
	Static().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/js/main.js", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "/submit-event") {
		t.Fatalf("expected main.js to be served, got %d", rr.Code)
	}
}
