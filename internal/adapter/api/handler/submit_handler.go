package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/V4T54L/event-admin/internal/domain"
)

type submitResponse struct {
	Success bool   `json:"success"`
	EventID string `json:"eventId,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SubmitEvent reads a multipart create request and forwards it to the ingest
// service. The response is always JSON.
// POST /submit-event
func (h *EventHandler) SubmitEvent(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	fields, image, err := readMultipart(r)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondWithJSON(w, http.StatusRequestEntityTooLarge, submitResponse{
				Error: fmt.Sprintf("Upload exceeds the maximum size of %d bytes.", h.maxUploadSize),
			})
			return
		}
		h.logger.Warn("failed to read multipart submission", "error", err)
		h.respondWithJSON(w, http.StatusBadRequest, submitResponse{Error: "Invalid multipart form submission."})
		return
	}

	outcome, err := h.svc.CreateEvent(r.Context(), fields, image)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			h.respondWithJSON(w, http.StatusBadRequest, submitResponse{Error: verr.Message})
			return
		}
		h.logger.Error("failed to process event submission", "error", err)
		h.respondWithJSON(w, http.StatusInternalServerError, submitResponse{Error: "Failed to process event submission."})
		return
	}

	if !outcome.Success {
		h.respondWithJSON(w, outcome.Status, submitResponse{Error: outcome.Message})
		return
	}
	h.respondWithJSON(w, http.StatusOK, submitResponse{Success: true, EventID: outcome.EventID})
}

// readMultipart streams the parts of r, collecting scalar fields and
// buffering the optional image in memory. Empty file parts are ignored.
func readMultipart(r *http.Request) (domain.FormFields, *domain.ImageFile, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, nil, err
	}

	fields := domain.FormFields{}
	var image *domain.ImageFile
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		name := part.FormName()
		data, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			return nil, nil, err
		}

		switch {
		case name == "":
			continue
		case name == domain.FieldImageFile:
			if part.FileName() == "" || len(data) == 0 || image != nil {
				continue
			}
			image = &domain.ImageFile{
				Filename:    part.FileName(),
				ContentType: part.Header.Get("Content-Type"),
				Data:        data,
			}
		case !fields.Has(name):
			fields[name] = string(data)
		}
	}
	return fields, image, nil
}
