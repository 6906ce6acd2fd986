package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/V4T54L/event-admin/internal/domain"
)

// SubmissionFeed implements domain.SubmissionFeed as a capped Redis list,
// newest entry first.
type SubmissionFeed struct {
	client *redis.Client
	key    string
	limit  int64
	logger *slog.Logger
}

// NewSubmissionFeed creates a new Redis-backed SubmissionFeed.
func NewSubmissionFeed(client *redis.Client, key string, limit int, logger *slog.Logger) *SubmissionFeed {
	if limit <= 0 {
		limit = 1
	}
	return &SubmissionFeed{
		client: client,
		key:    key,
		limit:  int64(limit),
		logger: logger.With("component", "submission_feed"),
	}
}

// NewClient parses a redis:// URL and returns a connected client.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// Record pushes s to the head of the list and trims it to the configured limit.
func (f *SubmissionFeed) Record(ctx context.Context, s domain.Submission) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal submission: %w", err)
	}

	pipe := f.client.TxPipeline()
	pipe.LPush(ctx, f.key, data)
	pipe.LTrim(ctx, f.key, 0, f.limit-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record submission %s: %w", s.EventID, err)
	}
	return nil
}

// Recent returns up to limit submissions, newest first.
func (f *SubmissionFeed) Recent(ctx context.Context) ([]domain.Submission, error) {
	entries, err := f.client.LRange(ctx, f.key, 0, f.limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read recent submissions: %w", err)
	}
	return decodeSubmissions(entries, f.logger), nil
}

// decodeSubmissions skips entries that are not valid submissions.
func decodeSubmissions(entries []string, logger *slog.Logger) []domain.Submission {
	subs := make([]domain.Submission, 0, len(entries))
	for _, entry := range entries {
		var s domain.Submission
		if err := json.Unmarshal([]byte(entry), &s); err != nil || s.EventID == "" {
			logger.Warn("skipping malformed submission entry", "entry", entry)
			continue
		}
		subs = append(subs, s)
	}
	return subs
}
