package mocks

import (
	"context"
	"sync"

	"github.com/V4T54L/event-admin/internal/domain"
)

// MockEventRepository is an in-memory domain.EventRepository for testing.
type MockEventRepository struct {
	mu        sync.Mutex
	Events    []domain.StoredEvent
	Updates   map[string]domain.EventPayload
	Deleted   []string
	ListErr   error
	GetErr    error
	UpdateErr error
	DeleteErr error
	PingErr   error
}

func (m *MockEventRepository) ListAll(ctx context.Context) ([]domain.StoredEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := make([]domain.StoredEvent, len(m.Events))
	copy(out, m.Events)
	return out, nil
}

func (m *MockEventRepository) GetByID(ctx context.Context, id string) (domain.StoredEvent, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return domain.StoredEvent{}, false, m.GetErr
	}
	for _, e := range m.Events {
		if e.DocID == id {
			return e, true, nil
		}
	}
	return domain.StoredEvent{}, false, nil
}

func (m *MockEventRepository) Update(ctx context.Context, id string, payload domain.EventPayload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	if m.Updates == nil {
		m.Updates = make(map[string]domain.EventPayload)
	}
	m.Updates[id] = payload
	return nil
}

func (m *MockEventRepository) Delete(ctx context.Context, id string) (domain.DeleteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return domain.DeleteResult{}, m.DeleteErr
	}
	m.Deleted = append(m.Deleted, id)
	return domain.DeleteResult{ID: id, Result: "deleted"}, nil
}

func (m *MockEventRepository) Ping(ctx context.Context) error {
	return m.PingErr
}

// MockIngestClient records submissions and returns a fixed Outcome.
type MockIngestClient struct {
	mu       sync.Mutex
	Outcome  domain.Outcome
	Payloads []domain.EventPayload
	Images   []*domain.ImageFile
}

func (m *MockIngestClient) Submit(ctx context.Context, payload domain.EventPayload, image *domain.ImageFile) domain.Outcome {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Payloads = append(m.Payloads, payload)
	m.Images = append(m.Images, image)
	return m.Outcome
}

// Calls returns how many times Submit was invoked.
func (m *MockIngestClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Payloads)
}

// MockSubmissionFeed is an in-memory domain.SubmissionFeed.
type MockSubmissionFeed struct {
	mu          sync.Mutex
	Submissions []domain.Submission
	RecordErr   error
	RecentErr   error
}

func (m *MockSubmissionFeed) Record(ctx context.Context, s domain.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RecordErr != nil {
		return m.RecordErr
	}
	m.Submissions = append([]domain.Submission{s}, m.Submissions...)
	return nil
}

func (m *MockSubmissionFeed) Recent(ctx context.Context) ([]domain.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RecentErr != nil {
		return nil, m.RecentErr
	}
	out := make([]domain.Submission, len(m.Submissions))
	copy(out, m.Submissions)
	return out, nil
}
