package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	threadKeyPrefix   = "bridgy:thread:"
	threadIndexKey    = "bridgy:threads"
	messagesKeyPrefix = "bridgy:messages:"
	messagesMaxLen    = 500 // cap per-thread history
)

// RedisStore implements Store on Redis.
// Each thread is a hash at "bridgy:thread:{id}"; the "bridgy:threads" sorted
// set indexes threads by last-modified time; messages live in a capped list
// at "bridgy:messages:{id}" as JSON entries.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore returns a RedisStore backed by the provided redis.Client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Ping verifies connectivity; used by the health endpoint.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("store: redis ping: %w", err)
	}
	return nil
}

// CreateThread creates a thread hash and indexes it by modification time.
func (s *RedisStore) CreateThread(ctx context.Context, name string) (Thread, error) {
	t := Thread{
		ThreadID:     uuid.NewString(),
		ThreadName:   name,
		DateModified: time.Now().UTC(),
	}

	key := threadKeyPrefix + t.ThreadID
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"name":          t.ThreadName,
		"date_modified": strconv.FormatInt(t.DateModified.UnixMilli(), 10),
	})
	pipe.ZAdd(ctx, threadIndexKey, redis.Z{
		Score:  float64(t.DateModified.UnixMilli()),
		Member: t.ThreadID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return Thread{}, fmt.Errorf("store: create thread: %w", err)
	}
	return t, nil
}

// GetThread loads a thread hash.
func (s *RedisStore) GetThread(ctx context.Context, threadID string) (*Thread, error) {
	vals, err := s.client.HGetAll(ctx, threadKeyPrefix+threadID).Result()
	if err != nil {
		return nil, fmt.Errorf("store: get thread %s: %w", threadID, err)
	}
	if len(vals) == 0 {
		return nil, ErrThreadNotFound
	}

	t := Thread{
		ThreadID:     threadID,
		ThreadName:   vals["name"],
		DateModified: parseMillis(vals["date_modified"]),
	}
	return &t, nil
}

// ListThreads walks the recency index newest-first and loads each hash.
func (s *RedisStore) ListThreads(ctx context.Context, limit int) ([]Thread, error) {
	if limit <= 0 {
		limit = 50
	}

	ids, err := s.client.ZRevRange(ctx, threadIndexKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("store: list threads: %w", err)
	}

	threads := make([]Thread, 0, len(ids))
	for _, id := range ids {
		t, err := s.GetThread(ctx, id)
		if errors.Is(err, ErrThreadNotFound) {
			// Index entry outlived its hash; skip it.
			continue
		}
		if err != nil {
			return nil, err
		}
		threads = append(threads, *t)
	}
	return threads, nil
}

// DeleteThread removes the hash, its messages and the index entry.
func (s *RedisStore) DeleteThread(ctx context.Context, threadID string) error {
	if _, err := s.GetThread(ctx, threadID); err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, threadKeyPrefix+threadID)
	pipe.Del(ctx, messagesKeyPrefix+threadID)
	pipe.ZRem(ctx, threadIndexKey, threadID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store: delete thread %s: %w", threadID, err)
	}
	return nil
}

// AppendMessage pushes a JSON message onto the thread's list and bumps the
// thread's modification time in both the hash and the recency index.
func (s *RedisStore) AppendMessage(ctx context.Context, msg Message) (Message, error) {
	if msg.ThreadID == "" {
		return Message{}, fmt.Errorf("store: message threadId must not be empty")
	}
	if _, err := s.GetThread(ctx, msg.ThreadID); err != nil {
		return Message{}, err
	}

	if msg.MessageID == "" {
		msg.MessageID = uuid.NewString()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return Message{}, fmt.Errorf("store: marshal message: %w", err)
	}

	now := msg.Timestamp.UnixMilli()
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, messagesKeyPrefix+msg.ThreadID, payload)
	pipe.LTrim(ctx, messagesKeyPrefix+msg.ThreadID, -messagesMaxLen, -1)
	pipe.HSet(ctx, threadKeyPrefix+msg.ThreadID, "date_modified", strconv.FormatInt(now, 10))
	pipe.ZAdd(ctx, threadIndexKey, redis.Z{Score: float64(now), Member: msg.ThreadID})
	if _, err := pipe.Exec(ctx); err != nil {
		return Message{}, fmt.Errorf("store: append message: %w", err)
	}
	return msg, nil
}

// ListMessages returns up to limit messages, oldest first.
func (s *RedisStore) ListMessages(ctx context.Context, threadID string, limit int) ([]Message, error) {
	if _, err := s.GetThread(ctx, threadID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = messagesMaxLen
	}

	raw, err := s.client.LRange(ctx, messagesKeyPrefix+threadID, int64(-limit), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("store: list messages for %s: %w", threadID, err)
	}

	messages := make([]Message, 0, len(raw))
	for _, entry := range raw {
		var m Message
		if err := json.Unmarshal([]byte(entry), &m); err != nil {
			return nil, fmt.Errorf("store: corrupt message entry in %s: %w", threadID, err)
		}
		messages = append(messages, m)
	}
	return messages, nil
}

// parseMillis converts a unix-milliseconds string to time.Time (zero on failure).
func parseMillis(s string) time.Time {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n == 0 {
		return time.Time{}
	}
	return time.UnixMilli(n).UTC()
}
