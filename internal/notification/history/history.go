// Package history stores dispatched notifications in send order.
package history

import (
	"context"
	"sync"

	"github.com/chaoslab/commerce/pkg/apierr"
)

// Notification is one dispatched record.
type Notification struct {
	ID        string  `json:"id"`
	Message   string  `json:"message"`
	Type      string  `json:"type"`
	Recipient string  `json:"recipient"`
	Status    string  `json:"status"`
	Timestamp float64 `json:"timestamp"`
}

// History is an append-only log with a bounded tail view. Appends must be safe
// under concurrent senders; reads never reorder entries.
type History interface {
	Append(ctx context.Context, n *Notification) error
	// Tail returns the most recent limit entries in the order they were sent.
	Tail(ctx context.Context, limit int) ([]*Notification, error)
	Total(ctx context.Context) (int, error)
	Find(ctx context.Context, id string) (*Notification, error)
}

// MemoryHistory is the default in-process History.
type MemoryHistory struct {
	mu      sync.RWMutex
	entries []*Notification
}

func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{}
}

func (h *MemoryHistory) Append(_ context.Context, n *Notification) error {
	cp := *n
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, &cp)
	return nil
}

func (h *MemoryHistory) Tail(_ context.Context, limit int) ([]*Notification, error) {
	if limit <= 0 {
		return []*Notification{}, nil
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	start := len(h.entries) - limit
	if start < 0 {
		start = 0
	}
	out := make([]*Notification, 0, len(h.entries)-start)
	for _, n := range h.entries[start:] {
		cp := *n
		out = append(out, &cp)
	}
	return out, nil
}

func (h *MemoryHistory) Total(_ context.Context) (int, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries), nil
}

func (h *MemoryHistory) Find(_ context.Context, id string) (*Notification, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for i := len(h.entries) - 1; i >= 0; i-- {
		if h.entries[i].ID == id {
			cp := *h.entries[i]
			return &cp, nil
		}
	}
	return nil, apierr.Newf(apierr.CodeNotFound, "notification %s not found", id)
}
