package queue

import (
	"slices"
	"sync"
	"time"
)

// EventType identifies a queue lifecycle event.
type EventType string

const (
	EventItemAdded        EventType = "item_added"
	EventItemDispatched   EventType = "item_dispatched"
	EventItemRetried      EventType = "item_retried"
	EventItemDeadLettered EventType = "item_dead_lettered"
	EventItemExpired      EventType = "item_expired"
	EventQueueFull        EventType = "queue_full"
)

// Event describes a state change of a queued item.
type Event struct {
	Type           EventType `json:"type"`
	ItemID         string    `json:"item_id,omitempty"`
	NotificationID string    `json:"notification_id,omitempty"`
	Attempts       int       `json:"attempts,omitempty"`
	Reason         string    `json:"reason,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

const subscriberBuffer = 64

// Subscription delivers queue events to a single consumer. Events are
// dropped rather than blocking the queue when the consumer falls
// behind.
type Subscription struct {
	ch     chan Event
	types  []EventType
	closed bool
	mu     sync.Mutex
}

// C returns the channel events arrive on. It is closed when the
// subscription or the queue shuts down.
func (s *Subscription) C() <-chan Event {
	return s.ch
}

// Close stops delivery and closes the event channel. Close is
// idempotent.
func (s *Subscription) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

func (s *Subscription) send(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if len(s.types) > 0 && !slices.Contains(s.types, e.Type) {
		return
	}
	select {
	case s.ch <- e:
	default:
	}
}

type eventHub struct {
	mu   sync.Mutex
	subs []*Subscription
}

func (h *eventHub) subscribe(types ...EventType) *Subscription {
	sub := &Subscription{
		ch:    make(chan Event, subscriberBuffer),
		types: types,
	}
	h.mu.Lock()
	h.subs = append(h.subs, sub)
	h.mu.Unlock()
	return sub
}

func (h *eventHub) publish(e Event) {
	h.mu.Lock()
	subs := slices.Clone(h.subs)
	h.mu.Unlock()
	for _, s := range subs {
		s.send(e)
	}
}

func (h *eventHub) close() {
	h.mu.Lock()
	subs := h.subs
	h.subs = nil
	h.mu.Unlock()
	for _, s := range subs {
		s.Close()
	}
}
