package domain

import (
	"context"
	"time"
)

// EventRepository is the access layer over the search index holding events.
type EventRepository interface {
	// ListAll returns every event sorted ascending by start_time.
	// An empty index yields an empty slice, never an error.
	ListAll(ctx context.Context) ([]StoredEvent, error)

	// GetByID returns the event and true, or false when the index reports
	// the document absent. Other failures wrap ErrBackendUnavailable.
	GetByID(ctx context.Context, id string) (StoredEvent, bool, error)

	// Update merges payload into the stored document. Returns ErrNotFound
	// when id does not exist.
	Update(ctx context.Context, id string, payload EventPayload) error

	// Delete removes the document. Same failure modes as Update.
	Delete(ctx context.Context, id string) (DeleteResult, error)

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
}

// DeleteResult is the backend acknowledgement of a delete.
type DeleteResult struct {
	ID      string `json:"_id"`
	Result  string `json:"result"`
	Version int64  `json:"_version"`
}

// IngestClient submits new events to the external ingest service.
type IngestClient interface {
	// Submit never returns an error; every failure is a failed Outcome.
	Submit(ctx context.Context, payload EventPayload, image *ImageFile) Outcome
}

// Submission is a recently created event, recorded right after a successful ingest.
type Submission struct {
	EventID     string    `json:"event_id"`
	Title       string    `json:"title"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// SubmissionFeed keeps a short, capped history of recent submissions.
type SubmissionFeed interface {
	Record(ctx context.Context, s Submission) error
	Recent(ctx context.Context) ([]Submission, error)
}
