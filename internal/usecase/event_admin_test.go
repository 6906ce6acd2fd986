package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/V4T54L/event-admin/internal/adapter/metrics"
	"github.com/V4T54L/event-admin/internal/adapter/pii"
	"github.com/V4T54L/event-admin/internal/domain"
	"github.com/V4T54L/event-admin/internal/domain/mocks"
)

type fixture struct {
	uc      *EventAdminUseCase
	repo    *mocks.MockEventRepository
	ingest  *mocks.MockIngestClient
	feed    *mocks.MockSubmissionFeed
	metrics *metrics.AdminMetrics
}

func newFixture() fixture {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := &mocks.MockEventRepository{}
	ingest := &mocks.MockIngestClient{Outcome: domain.Succeeded("evt_new", http.StatusCreated)}
	feed := &mocks.MockSubmissionFeed{}
	m := metrics.NewAdminMetrics(prometheus.NewRegistry())
	uc := NewEventAdminUseCase(repo, ingest, feed, pii.NewRedactor([]string{"contact_email"}, logger), m, logger)
	uc.now = func() time.Time { return time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC) }
	return fixture{uc: uc, repo: repo, ingest: ingest, feed: feed, metrics: m}
}

func TestEventAdminUseCase_CreateEvent(t *testing.T) {
	t.Run("Accepted", func(t *testing.T) {
		fx := newFixture()
		image := &domain.ImageFile{Filename: "a.png", ContentType: "image/png", Data: []byte("png")}

		outcome, err := fx.uc.CreateEvent(context.Background(), minimalForm(), image)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !outcome.Success || outcome.EventID != "evt_new" {
			t.Fatalf("unexpected outcome: %+v", outcome)
		}
		if fx.ingest.Calls() != 1 || fx.ingest.Images[0] != image {
			t.Errorf("expected one ingest call carrying the image")
		}
		if len(fx.feed.Submissions) != 1 || fx.feed.Submissions[0].EventID != "evt_new" || fx.feed.Submissions[0].Title != "Launch" {
			t.Errorf("expected submission to be recorded, got %+v", fx.feed.Submissions)
		}
		if got := testutil.ToFloat64(fx.metrics.IngestSubmissions.WithLabelValues("accepted")); got != 1 {
			t.Errorf("expected accepted counter 1, got %v", got)
		}
	})

	t.Run("Missing required fields", func(t *testing.T) {
		fx := newFixture()
		for _, field := range []string{domain.FieldTitle, domain.FieldStartTime, domain.FieldLocationName, domain.FieldOrganizerName} {
			f := minimalForm()
			delete(f, field)
			_, err := fx.uc.CreateEvent(context.Background(), f, nil)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("missing %s: expected ValidationError, got %v", field, err)
			}
		}
		if fx.ingest.Calls() != 0 {
			t.Errorf("ingest must not be called on validation failure, got %d calls", fx.ingest.Calls())
		}
		if got := testutil.ToFloat64(fx.metrics.IngestSubmissions.WithLabelValues("invalid")); got != 4 {
			t.Errorf("expected invalid counter 4, got %v", got)
		}
	})

	t.Run("Rejected", func(t *testing.T) {
		fx := newFixture()
		fx.ingest.Outcome = domain.Failed(http.StatusInternalServerError, "Event Ingest failed: disk full")

		outcome, err := fx.uc.CreateEvent(context.Background(), minimalForm(), nil)
		if err != nil {
			t.Fatalf("rejection is an outcome, not an error: %v", err)
		}
		if outcome.Success || outcome.Status != http.StatusInternalServerError || outcome.Message != "Event Ingest failed: disk full" {
			t.Errorf("unexpected outcome: %+v", outcome)
		}
		if len(fx.feed.Submissions) != 0 {
			t.Error("rejected submissions must not be recorded")
		}
	})

	t.Run("Feed failure tolerated", func(t *testing.T) {
		fx := newFixture()
		fx.feed.RecordErr = errors.New("redis down")

		outcome, err := fx.uc.CreateEvent(context.Background(), minimalForm(), nil)
		if err != nil || !outcome.Success {
			t.Fatalf("feed errors must not fail creation: outcome=%+v err=%v", outcome, err)
		}
	})
}

func TestEventAdminUseCase_UpdateEvent(t *testing.T) {
	t.Run("Applies payload", func(t *testing.T) {
		fx := newFixture()
		if err := fx.uc.UpdateEvent(context.Background(), "evt_1", minimalForm()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if fx.repo.Updates["evt_1"].Title != "Launch" {
			t.Errorf("expected update to be applied, got %+v", fx.repo.Updates)
		}
	})

	t.Run("Not found", func(t *testing.T) {
		fx := newFixture()
		fx.repo.UpdateErr = domain.ErrNotFound
		err := fx.uc.UpdateEvent(context.Background(), "evt_missing", minimalForm())
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if got := testutil.ToFloat64(fx.metrics.BackendOperations.WithLabelValues("update", "not_found")); got != 1 {
			t.Errorf("expected not_found counter 1, got %v", got)
		}
	})

	t.Run("Validation failure skips backend", func(t *testing.T) {
		fx := newFixture()
		f := minimalForm()
		f[domain.FieldTitle] = ""
		err := fx.uc.UpdateEvent(context.Background(), "evt_1", f)
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if len(fx.repo.Updates) != 0 {
			t.Error("backend must not be called on validation failure")
		}
	})
}

func TestEventAdminUseCase_EditForm(t *testing.T) {
	fx := newFixture()
	fx.repo.Events = []domain.StoredEvent{{
		DocID: "evt_1",
		Event: domain.Event{
			ID:            "evt_1",
			Title:         "Launch",
			StartTime:     "2025-01-01T10:00:00Z",
			Location:      domain.Location{Name: "HQ", Geo: &domain.Geo{Lat: 1.25, Lon: -3}},
			OrganizerInfo: domain.OrganizerInfo{Name: "Acme"},
		},
	}}

	f, found, err := fx.uc.EditForm(context.Background(), "evt_1")
	if err != nil || !found {
		t.Fatalf("expected form, got found=%v err=%v", found, err)
	}
	if f.Get(domain.FieldLocationLatitude) != "1.25" || f.Get(domain.FieldLocationLongitude) != "-3" {
		t.Errorf("unexpected geo fields: %v", f)
	}

	_, found, err = fx.uc.EditForm(context.Background(), "evt_missing")
	if err != nil || found {
		t.Errorf("expected not found without error, got found=%v err=%v", found, err)
	}
}

func TestEventAdminUseCase_RecentSubmissions(t *testing.T) {
	fx := newFixture()
	fx.feed.Submissions = []domain.Submission{{EventID: "evt_1", Title: "Launch"}}
	if subs := fx.uc.RecentSubmissions(context.Background()); len(subs) != 1 {
		t.Errorf("expected 1 submission, got %d", len(subs))
	}

	fx.feed.RecentErr = errors.New("redis down")
	if subs := fx.uc.RecentSubmissions(context.Background()); len(subs) != 0 {
		t.Errorf("expected feed errors to yield no submissions, got %v", subs)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	noFeed := NewEventAdminUseCase(fx.repo, fx.ingest, nil, nil, nil, logger)
	if subs := noFeed.RecentSubmissions(context.Background()); subs != nil {
		t.Errorf("expected nil without a feed, got %v", subs)
	}
}

func TestEventAdminUseCase_ListAndDelete(t *testing.T) {
	fx := newFixture()
	fx.repo.ListErr = domain.ErrBackendUnavailable
	if _, err := fx.uc.ListEvents(context.Background()); !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}

	res, err := fx.uc.DeleteEvent(context.Background(), "evt_1")
	if err != nil || res.Result != "deleted" {
		t.Fatalf("unexpected delete result %+v, err %v", res, err)
	}
	if len(fx.repo.Deleted) != 1 || fx.repo.Deleted[0] != "evt_1" {
		t.Errorf("expected evt_1 to be deleted, got %v", fx.repo.Deleted)
	}
}
