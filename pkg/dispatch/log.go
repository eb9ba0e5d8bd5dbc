package dispatch

import (
	"context"
	"sync"
)

// Log is the append-only delivery log. One entry is written per
// delivery attempt, success or failure, keyed by notification ID.
// Entries are never mutated after append.
type Log interface {
	// Append records one delivery attempt.
	Append(ctx context.Context, result DeliveryResult) error

	// List returns all recorded attempts for a notification, oldest
	// first.
	List(ctx context.Context, notificationID string) ([]DeliveryResult, error)
}

// MemoryLog keeps delivery attempts in process memory. Suitable for
// tests and for deployments where an external collector drains the
// queue's event stream instead.
type MemoryLog struct {
	mu      sync.RWMutex
	entries map[string][]DeliveryResult
}

// NewMemoryLog creates an empty in-memory delivery log.
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{entries: make(map[string][]DeliveryResult)}
}

// Append implements Log.
func (l *MemoryLog) Append(ctx context.Context, result DeliveryResult) error {
	if result.NotificationID == "" {
		return ErrMissingNotificationID
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[result.NotificationID] = append(l.entries[result.NotificationID], result)
	return nil
}

// List implements Log.
func (l *MemoryLog) List(ctx context.Context, notificationID string) ([]DeliveryResult, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entries := l.entries[notificationID]
	out := make([]DeliveryResult, len(entries))
	copy(out, entries)
	return out, nil
}
