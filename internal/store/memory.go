package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store implementation. It backs the API when no
// Redis address is configured (single-node dev mode) and the package tests.
type MemoryStore struct {
	mu       sync.RWMutex
	threads  map[string]Thread
	messages map[string][]Message
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		threads:  make(map[string]Thread),
		messages: make(map[string][]Message),
	}
}

func (s *MemoryStore) CreateThread(_ context.Context, name string) (Thread, error) {
	t := Thread{
		ThreadID:     uuid.NewString(),
		ThreadName:   name,
		DateModified: time.Now().UTC(),
	}
	s.mu.Lock()
	s.threads[t.ThreadID] = t
	s.mu.Unlock()
	return t, nil
}

func (s *MemoryStore) GetThread(_ context.Context, threadID string) (*Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.threads[threadID]
	if !ok {
		return nil, ErrThreadNotFound
	}
	return &t, nil
}

func (s *MemoryStore) ListThreads(_ context.Context, limit int) ([]Thread, error) {
	if limit <= 0 {
		limit = 50
	}
	s.mu.RLock()
	threads := make([]Thread, 0, len(s.threads))
	for _, t := range s.threads {
		threads = append(threads, t)
	}
	s.mu.RUnlock()

	sort.Slice(threads, func(i, j int) bool {
		return threads[i].DateModified.After(threads[j].DateModified)
	})
	if len(threads) > limit {
		threads = threads[:limit]
	}
	return threads, nil
}

func (s *MemoryStore) DeleteThread(_ context.Context, threadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.threads[threadID]; !ok {
		return ErrThreadNotFound
	}
	delete(s.threads, threadID)
	delete(s.messages, threadID)
	return nil
}

func (s *MemoryStore) AppendMessage(_ context.Context, msg Message) (Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.threads[msg.ThreadID]
	if !ok {
		return Message{}, ErrThreadNotFound
	}

	if msg.MessageID == "" {
		msg.MessageID = uuid.NewString()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	s.messages[msg.ThreadID] = append(s.messages[msg.ThreadID], msg)
	t.DateModified = msg.Timestamp
	s.threads[msg.ThreadID] = t
	return msg, nil
}

func (s *MemoryStore) ListMessages(_ context.Context, threadID string, limit int) ([]Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.threads[threadID]; !ok {
		return nil, ErrThreadNotFound
	}
	msgs := s.messages[threadID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out, nil
}
