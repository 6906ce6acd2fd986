package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/V4T54L/event-admin/internal/adapter/metrics"
	"github.com/V4T54L/event-admin/internal/adapter/pii"
	"github.com/V4T54L/event-admin/internal/domain"
)

const feedWarnInterval = 30 * time.Second

// EventAdminUseCase orchestrates the admin operations on events: reads and
// partial updates go to the index, creation goes through the ingest service.
type EventAdminUseCase struct {
	repo       domain.EventRepository
	ingest     domain.IngestClient
	feed       domain.SubmissionFeed // optional
	normalizer *Normalizer
	redactor   *pii.Redactor
	metrics    *metrics.AdminMetrics
	logger     *slog.Logger
	now        func() time.Time

	feedWarn rate.Sometimes
}

// NewEventAdminUseCase creates a new EventAdminUseCase. feed and m may be nil.
func NewEventAdminUseCase(
	repo domain.EventRepository,
	ingest domain.IngestClient,
	feed domain.SubmissionFeed,
	redactor *pii.Redactor,
	m *metrics.AdminMetrics,
	logger *slog.Logger,
) *EventAdminUseCase {
	return &EventAdminUseCase{
		repo:       repo,
		ingest:     ingest,
		feed:       feed,
		normalizer: NewNormalizer(logger),
		redactor:   redactor,
		metrics:    m,
		logger:     logger.With("component", "event_admin"),
		now:        time.Now,
		feedWarn:   rate.Sometimes{Interval: feedWarnInterval},
	}
}

// ListEvents returns all events ordered by start time.
func (uc *EventAdminUseCase) ListEvents(ctx context.Context) ([]domain.StoredEvent, error) {
	events, err := uc.repo.ListAll(ctx)
	uc.observeBackend("list", err)
	if err != nil {
		return nil, err
	}
	return events, nil
}

// GetEvent fetches one event. found is false when the index has no such document.
func (uc *EventAdminUseCase) GetEvent(ctx context.Context, id string) (event domain.StoredEvent, found bool, err error) {
	event, found, err = uc.repo.GetByID(ctx, id)
	uc.observeBackend("get", err)
	return event, found, err
}

// EditForm returns the stored event as prefilled form fields.
func (uc *EventAdminUseCase) EditForm(ctx context.Context, id string) (domain.FormFields, bool, error) {
	event, found, err := uc.GetEvent(ctx, id)
	if err != nil || !found {
		return nil, found, err
	}
	return FormFromEvent(event.Event), true, nil
}

// UpdateEvent validates and normalizes the submitted fields, then applies
// them as a partial update. Returns *domain.ValidationError, domain.ErrNotFound
// or an error wrapping domain.ErrBackendUnavailable.
func (uc *EventAdminUseCase) UpdateEvent(ctx context.Context, id string, fields domain.FormFields) error {
	payload, err := uc.normalizer.Update(fields)
	if err != nil {
		return err
	}

	err = uc.repo.Update(ctx, id, payload)
	uc.observeBackend("update", err)
	if err != nil {
		return fmt.Errorf("update event %s: %w", id, err)
	}
	uc.logger.Info("event updated", "event_id", id)
	return nil
}

// DeleteEvent removes an event from the index.
func (uc *EventAdminUseCase) DeleteEvent(ctx context.Context, id string) (domain.DeleteResult, error) {
	res, err := uc.repo.Delete(ctx, id)
	uc.observeBackend("delete", err)
	if err != nil {
		return domain.DeleteResult{}, fmt.Errorf("delete event %s: %w", id, err)
	}
	return res, nil
}

// CreateEvent validates and normalizes the submitted fields and forwards
// them to the ingest service. The returned error is only ever a
// *domain.ValidationError, in which case the ingest service is not called.
func (uc *EventAdminUseCase) CreateEvent(ctx context.Context, fields domain.FormFields, image *domain.ImageFile) (domain.Outcome, error) {
	payload, err := uc.normalizer.Create(fields)
	if err != nil {
		uc.observeIngest("invalid")
		return domain.Outcome{}, err
	}

	outcome := uc.ingest.Submit(ctx, payload, image)
	if !outcome.Success {
		uc.observeIngest("rejected")
		uc.logger.Error("event submission failed",
			"status", outcome.Status,
			"error", outcome.Message,
			"payload", uc.redactedPayload(payload),
		)
		return outcome, nil
	}

	uc.observeIngest("accepted")
	uc.logger.Info("event submitted", "event_id", outcome.EventID)
	uc.recordSubmission(ctx, outcome.EventID, payload.Title)
	return outcome, nil
}

// RecentSubmissions returns the recent-submissions feed. It is best-effort:
// failures are logged and yield an empty list.
func (uc *EventAdminUseCase) RecentSubmissions(ctx context.Context) []domain.Submission {
	if uc.feed == nil {
		return nil
	}
	subs, err := uc.feed.Recent(ctx)
	if err != nil {
		uc.feedWarn.Do(func() {
			uc.logger.Warn("could not read recent submissions", "error", err)
		})
		return nil
	}
	return subs
}

// Ping reports backend reachability for health checks.
func (uc *EventAdminUseCase) Ping(ctx context.Context) error {
	return uc.repo.Ping(ctx)
}

func (uc *EventAdminUseCase) recordSubmission(ctx context.Context, eventID, title string) {
	if uc.feed == nil {
		return
	}
	s := domain.Submission{EventID: eventID, Title: title, SubmittedAt: uc.now().UTC()}
	if err := uc.feed.Record(ctx, s); err != nil {
		uc.feedWarn.Do(func() {
			uc.logger.Warn("could not record submission", "error", err, "event_id", eventID)
		})
	}
}

func (uc *EventAdminUseCase) redactedPayload(p domain.EventPayload) string {
	raw, err := json.Marshal(p)
	if err != nil {
		return ""
	}
	if uc.redactor == nil {
		return string(raw)
	}
	redacted, _, err := uc.redactor.Redact(raw)
	if err != nil {
		return ""
	}
	return string(redacted)
}

func (uc *EventAdminUseCase) observeBackend(op string, err error) {
	if uc.metrics != nil {
		uc.metrics.ObserveBackend(op, err)
	}
}

func (uc *EventAdminUseCase) observeIngest(outcome string) {
	if uc.metrics != nil {
		uc.metrics.IngestSubmissions.WithLabelValues(outcome).Inc()
	}
}
