package queue

import (
	"time"

	"github.com/notifykit/notifykit/pkg/notification"
)

// Priority levels for queued items. Higher values are claimed first.
const (
	PriorityLow      int8 = 25
	PriorityNormal   int8 = 50
	PriorityHigh     int8 = 75
	PriorityCritical int8 = 100
)

// priorityFor maps a notification severity to a default priority.
func priorityFor(s notification.Severity) int8 {
	switch s {
	case notification.SeverityCritical:
		return PriorityCritical
	case notification.SeverityHigh:
		return PriorityHigh
	case notification.SeverityMedium:
		return PriorityNormal
	default:
		return PriorityLow
	}
}

// Item is a notification waiting for, or undergoing, delivery.
type Item struct {
	ID             string                   `json:"id"`
	Notification   notification.Notification `json:"notification"`
	Preferences    notification.Preferences `json:"preferences"`
	Priority       int8                     `json:"priority"`
	Attempts       int                      `json:"attempts"`
	MaxAttempts    int                      `json:"max_attempts"`
	LastError      string                   `json:"last_error,omitempty"`
	ScheduledFor   time.Time                `json:"scheduled_for,omitzero"`
	NextEligibleAt time.Time                `json:"next_eligible_at,omitzero"`
	CreatedAt      time.Time                `json:"created_at"`
	DeadLetteredAt time.Time                `json:"dead_lettered_at,omitzero"`

	// seq preserves arrival order among items of equal priority.
	seq uint64
}

// eligible reports whether the item may be claimed at now: its
// scheduled time has arrived and any retry backoff has elapsed.
func (it *Item) eligible(now time.Time) bool {
	if !it.ScheduledFor.IsZero() && now.Before(it.ScheduledFor) {
		return false
	}
	if !it.NextEligibleAt.IsZero() && now.Before(it.NextEligibleAt) {
		return false
	}
	return true
}

// EnqueueOption customizes a single enqueued item.
type EnqueueOption func(*Item)

// WithPriority overrides the severity-derived priority.
func WithPriority(p int8) EnqueueOption {
	return func(it *Item) {
		it.Priority = p
	}
}

// WithMaxAttempts overrides the queue-wide attempt ceiling for this item.
func WithMaxAttempts(n int) EnqueueOption {
	return func(it *Item) {
		if n > 0 {
			it.MaxAttempts = n
		}
	}
}

// WithScheduledFor delays the first delivery attempt until t.
func WithScheduledFor(t time.Time) EnqueueOption {
	return func(it *Item) {
		it.ScheduledFor = t
	}
}
