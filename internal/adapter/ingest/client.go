// Package ingest talks to the external event ingest service, which owns
// validation, image handling and signing of new events.
package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/V4T54L/event-admin/internal/domain"
)

const (
	eventField = "event"

	errorPrefix         = "Event Ingest failed: "
	missingIDMessage    = "Event ingest service responded successfully but did not return an event ID."
	unreachableMessage  = "Failed to communicate with event ingest service."
	maxResponseBodySize = 1 << 20
)

// Client submits events to the ingest service as multipart requests.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new ingest Client for endpoint url.
func NewClient(url string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With("component", "ingest_client"),
	}
}

type successResponse struct {
	EventID string `json:"event_id"`
	ID      string `json:"id"`
}

type failureResponse struct {
	Message string          `json:"message"`
	Detail  json.RawMessage `json:"detail"`
	Error   string          `json:"error"`
}

// Submit sends payload and the optional image. Every failure is reported as
// a failed domain.Outcome.
func (c *Client) Submit(ctx context.Context, payload domain.EventPayload, image *domain.ImageFile) domain.Outcome {
	body, contentType, err := encodeRequest(payload, image)
	if err != nil {
		c.logger.Error("failed to encode ingest request", "error", err)
		return domain.Failed(http.StatusInternalServerError, unreachableMessage)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		c.logger.Error("failed to build ingest request", "error", err, "url", c.url)
		return domain.Failed(http.StatusInternalServerError, unreachableMessage)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("ingest service request failed", "error", err, "url", c.url)
		return domain.Failed(http.StatusInternalServerError, unreachableMessage)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		c.logger.Error("failed to read ingest response", "error", err, "status", resp.StatusCode)
		return domain.Failed(http.StatusInternalServerError, unreachableMessage)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := errorPrefix + failureMessage(raw, resp.Status)
		c.logger.Warn("ingest service rejected event", "status", resp.StatusCode, "error", msg)
		return domain.Failed(resp.StatusCode, msg)
	}

	var sr successResponse
	if err := json.Unmarshal(raw, &sr); err != nil {
		c.logger.Error("ingest service returned malformed success body", "error", err, "status", resp.StatusCode)
		return domain.Failed(http.StatusInternalServerError, unreachableMessage)
	}
	id := sr.EventID
	if id == "" {
		id = sr.ID
	}
	if id == "" {
		c.logger.Error("ingest service returned no event id", "status", resp.StatusCode)
		return domain.Failed(http.StatusInternalServerError, missingIDMessage)
	}
	return domain.Succeeded(id, resp.StatusCode)
}

func encodeRequest(payload domain.EventPayload, image *domain.ImageFile) (io.Reader, string, error) {
	eventJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal event payload: %w", err)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField(eventField, string(eventJSON)); err != nil {
		return nil, "", fmt.Errorf("failed to write event field: %w", err)
	}

	if image != nil && len(image.Data) > 0 {
		contentType := image.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			domain.FieldImageFile, escapeQuotes(image.Filename)))
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create image part: %w", err)
		}
		if _, err := part.Write(image.Data); err != nil {
			return nil, "", fmt.Errorf("failed to write image part: %w", err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}

// failureMessage extracts a human-readable message from an error body,
// falling back to the raw text and then to the HTTP status line.
func failureMessage(raw []byte, status string) string {
	var fr failureResponse
	if err := json.Unmarshal(raw, &fr); err == nil {
		if fr.Message != "" {
			return fr.Message
		}
		if detail := detailText(fr.Detail); detail != "" {
			return detail
		}
		if fr.Error != "" {
			return fr.Error
		}
	}
	if text := strings.TrimSpace(string(raw)); text != "" {
		return text
	}
	return status
}

// detailText renders a "detail" value, which is either a string or a list of
// validation problems.
func detailText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
