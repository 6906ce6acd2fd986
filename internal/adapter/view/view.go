// Package view renders the admin HTML pages and serves their static assets.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/V4T54L/event-admin/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page names accepted by Render.
const (
	PageIndex  = "index"
	PageUpload = "upload-event"
	PageDetail = "event-detail"
	PageEdit   = "edit-event"
)

var pages = []string{PageIndex, PageUpload, PageDetail, PageEdit}

// Banner is a one-off status message shown at the top of a page.
type Banner struct {
	Type string // success or error
	Text string
}

// IndexData feeds the event list page.
type IndexData struct {
	Events  []domain.StoredEvent
	Recent  []domain.Submission
	Error   string
	Message *Banner
}

// UploadData feeds the create form.
type UploadData struct {
	APIBaseURL    string
	MaxUploadSize int64
	Message       *Banner
}

// DetailData feeds the single event page.
type DetailData struct {
	Event   domain.StoredEvent
	Message *Banner
}

// EditData feeds the edit form. Form holds either the stored values or
// whatever the user last submitted.
type EditData struct {
	EventID string
	Form    domain.FormFields
	Error   string
}

// Renderer executes the embedded page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page together with the shared layout.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New(name).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render writes page name with the given status. Output is buffered so a
// template error never leaves a half-written page.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data any) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Static serves the embedded assets; mount it under /public/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServerFS(sub)
}
