package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/V4T54L/event-admin/internal/domain"
)

const (
	maxErrorBody          = 4096
	indexNotFoundErrorKey = "index_not_found_exception"
)

// NewClient creates an Elasticsearch client for the given node addresses.
func NewClient(addresses []string) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: addresses,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return client, nil
}

// EventRepository implements domain.EventRepository on an Elasticsearch index.
type EventRepository struct {
	client   *elasticsearch.Client
	index    string
	listSize int
	logger   *slog.Logger
}

// NewEventRepository creates a new Elasticsearch-backed EventRepository.
// listSize bounds how many documents ListAll returns.
func NewEventRepository(client *elasticsearch.Client, index string, listSize int, logger *slog.Logger) *EventRepository {
	return &EventRepository{
		client:   client,
		index:    index,
		listSize: listSize,
		logger:   logger.With("component", "elasticsearch_repository", "index", index),
	}
}

type searchResponse struct {
	Hits struct {
		Hits []hit `json:"hits"`
	} `json:"hits"`
}

type hit struct {
	ID     string       `json:"_id"`
	Source domain.Event `json:"_source"`
}

type getResponse struct {
	ID     string        `json:"_id"`
	Found  bool          `json:"found"`
	Source *domain.Event `json:"_source"`
}

type errorResponse struct {
	Error struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
}

var listQuery = map[string]any{
	"query": map[string]any{"match_all": map[string]any{}},
	"sort": []any{
		map[string]any{"start_time": map[string]any{"order": "asc"}},
	},
}

// ListAll returns every event sorted ascending by start_time. A missing
// index is treated as an empty collection.
func (r *EventRepository) ListAll(ctx context.Context) ([]domain.StoredEvent, error) {
	body, err := json.Marshal(listQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search query: %w", err)
	}

	res, err := r.client.Search(
		r.client.Search.WithContext(ctx),
		r.client.Search.WithIndex(r.index),
		r.client.Search.WithBody(bytes.NewReader(body)),
		r.client.Search.WithSize(r.listSize),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: search: %v", domain.ErrBackendUnavailable, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		raw := readErrorBody(res)
		if res.StatusCode == http.StatusNotFound && errorType(raw) == indexNotFoundErrorKey {
			r.logger.Debug("index does not exist yet, returning no events")
			return []domain.StoredEvent{}, nil
		}
		return nil, backendError("search", res.StatusCode, raw)
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("%w: decode search response: %v", domain.ErrBackendUnavailable, err)
	}

	events := make([]domain.StoredEvent, 0, len(sr.Hits.Hits))
	for _, h := range sr.Hits.Hits {
		events = append(events, domain.StoredEvent{DocID: h.ID, Event: h.Source})
	}
	return events, nil
}

// GetByID fetches one document. found is false when Elasticsearch reports it absent.
func (r *EventRepository) GetByID(ctx context.Context, id string) (domain.StoredEvent, bool, error) {
	res, err := r.client.Get(r.index, id, r.client.Get.WithContext(ctx))
	if err != nil {
		return domain.StoredEvent{}, false, fmt.Errorf("%w: get %s: %v", domain.ErrBackendUnavailable, id, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return domain.StoredEvent{}, false, nil
	}
	if res.IsError() {
		return domain.StoredEvent{}, false, backendError("get "+id, res.StatusCode, readErrorBody(res))
	}

	var gr getResponse
	if err := json.NewDecoder(res.Body).Decode(&gr); err != nil {
		return domain.StoredEvent{}, false, fmt.Errorf("%w: decode get response: %v", domain.ErrBackendUnavailable, err)
	}
	if !gr.Found || gr.Source == nil {
		return domain.StoredEvent{}, false, nil
	}
	return domain.StoredEvent{DocID: gr.ID, Event: *gr.Source}, true, nil
}

// Update applies payload as a partial document merge.
func (r *EventRepository) Update(ctx context.Context, id string, payload domain.EventPayload) error {
	body, err := json.Marshal(map[string]any{"doc": payload})
	if err != nil {
		return fmt.Errorf("failed to marshal update for %s: %w", id, err)
	}

	res, err := r.client.Update(r.index, id, bytes.NewReader(body), r.client.Update.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: update %s: %v", domain.ErrBackendUnavailable, id, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return domain.ErrNotFound
	}
	if res.IsError() {
		return backendError("update "+id, res.StatusCode, readErrorBody(res))
	}
	return nil
}

// Delete removes a document and returns the backend acknowledgement.
func (r *EventRepository) Delete(ctx context.Context, id string) (domain.DeleteResult, error) {
	res, err := r.client.Delete(r.index, id, r.client.Delete.WithContext(ctx))
	if err != nil {
		return domain.DeleteResult{}, fmt.Errorf("%w: delete %s: %v", domain.ErrBackendUnavailable, id, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return domain.DeleteResult{}, domain.ErrNotFound
	}
	if res.IsError() {
		return domain.DeleteResult{}, backendError("delete "+id, res.StatusCode, readErrorBody(res))
	}

	var dr domain.DeleteResult
	if err := json.NewDecoder(res.Body).Decode(&dr); err != nil {
		return domain.DeleteResult{}, fmt.Errorf("%w: decode delete response: %v", domain.ErrBackendUnavailable, err)
	}
	return dr, nil
}

// Ping checks that the cluster answers.
func (r *EventRepository) Ping(ctx context.Context) error {
	res, err := r.client.Ping(r.client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: ping: %v", domain.ErrBackendUnavailable, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return backendError("ping", res.StatusCode, nil)
	}
	return nil
}

func readErrorBody(res *esapi.Response) []byte {
	raw, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
	return raw
}

func errorType(raw []byte) string {
	var er errorResponse
	if err := json.Unmarshal(raw, &er); err != nil {
		return ""
	}
	return er.Error.Type
}

func backendError(op string, status int, raw []byte) error {
	return fmt.Errorf("%w: %s: status %d: %s", domain.ErrBackendUnavailable, op, status, raw)
}
