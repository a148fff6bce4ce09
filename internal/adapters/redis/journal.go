package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aretw0/curtain/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// DefaultLimit is the number of entries retained when no limit is given.
const DefaultLimit = 100

// Journal implements ports.Journal on a capped Redis list.
// Entries are pushed to the head, so the list is already newest first.
type Journal struct {
	client *backend.Client
	key    string
	limit  int
	ttl    time.Duration
}

type Option func(*Journal)

// WithKey sets the list key.
func WithKey(key string) Option {
	return func(j *Journal) {
		j.key = key
	}
}

// WithLimit sets how many entries are retained.
func WithLimit(limit int) Option {
	return func(j *Journal) {
		if limit > 0 {
			j.limit = limit
		}
	}
}

// WithTTL expires the whole journal after ttl without writes.
func WithTTL(ttl time.Duration) Option {
	return func(j *Journal) {
		j.ttl = ttl
	}
}

// New creates a Redis journal with options.
func New(address, password string, db int, opts ...Option) *Journal {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a Redis journal from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Journal {
	j := &Journal{
		client: client,
		key:    "curtain:journal",
		limit:  DefaultLimit,
	}

	for _, opt := range opts {
		opt(j)
	}

	return j
}

// Append pushes entry and trims the list to the limit.
func (j *Journal) Append(ctx context.Context, entry ports.JournalEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal journal entry: %w", err)
	}

	pipe := j.client.TxPipeline()
	pipe.LPush(ctx, j.key, data)
	pipe.LTrim(ctx, j.key, 0, int64(j.limit-1))
	if j.ttl > 0 {
		pipe.Expire(ctx, j.key, j.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append to redis: %w", err)
	}
	return nil
}

// Recent returns up to n entries, newest first.
func (j *Journal) Recent(ctx context.Context, n int) ([]ports.JournalEntry, error) {
	stop := int64(-1)
	if n > 0 {
		stop = int64(n - 1)
	}

	vals, err := j.client.LRange(ctx, j.key, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read journal from redis: %w", err)
	}

	entries := make([]ports.JournalEntry, 0, len(vals))
	for _, v := range vals {
		var e ports.JournalEntry
		if err := json.Unmarshal([]byte(v), &e); err != nil {
			return nil, fmt.Errorf("failed to unmarshal journal entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Ping checks connectivity.
func (j *Journal) Ping(ctx context.Context) error {
	return j.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (j *Journal) Close() error {
	return j.client.Close()
}
