// Package store persists conversation threads and their messages.
//
// The production implementation is Redis-backed (threads as hashes plus a
// recency index, messages as per-thread lists). The Store interface exists so
// the HTTP layer can be tested against an in-memory implementation.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrThreadNotFound is returned when a thread ID does not exist.
var ErrThreadNotFound = errors.New("store: thread not found")

// Thread is one conversation.
type Thread struct {
	ThreadID     string    `json:"threadId"`
	ThreadName   string    `json:"threadName"`
	DateModified time.Time `json:"dateModified"`
}

// Message is one question/answer exchange within a thread.
type Message struct {
	MessageID        string    `json:"messageId"`
	ThreadID         string    `json:"threadId"`
	UserMessage      string    `json:"userMessage"`
	AssistantMessage string    `json:"assistantMessage"`
	Expert           string    `json:"expert"`
	AutoInvoked      bool      `json:"autoInvokedCommand"`
	Timestamp        time.Time `json:"timestamp"`
}

// Store is the conversation persistence contract.
type Store interface {
	// CreateThread creates a thread with the given display name and returns it.
	CreateThread(ctx context.Context, name string) (Thread, error)

	// GetThread returns the thread with the given ID, or ErrThreadNotFound.
	GetThread(ctx context.Context, threadID string) (*Thread, error)

	// ListThreads returns up to limit threads, most recently modified first.
	ListThreads(ctx context.Context, limit int) ([]Thread, error)

	// DeleteThread removes a thread and all its messages.
	// Deleting an unknown thread returns ErrThreadNotFound.
	DeleteThread(ctx context.Context, threadID string) error

	// AppendMessage stores a message (assigning MessageID and Timestamp when
	// empty) and bumps the thread's DateModified.
	AppendMessage(ctx context.Context, msg Message) (Message, error)

	// ListMessages returns up to limit messages of a thread, oldest first.
	ListMessages(ctx context.Context, threadID string, limit int) ([]Message, error)
}
