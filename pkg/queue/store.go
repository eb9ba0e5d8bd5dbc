package queue

import (
	"slices"
	"time"
)

// store holds pending items. It is not safe for concurrent use; the
// queue serializes access under its own mutex.
type store struct {
	items []*Item
}

func (s *store) add(it *Item) {
	s.items = append(s.items, it)
}

func (s *store) len() int {
	return len(s.items)
}

// claim removes and returns the best eligible item at now: highest
// priority first, earliest arrival among equals. Returns nil when no
// item is eligible.
func (s *store) claim(now time.Time) *Item {
	best := -1
	for i, it := range s.items {
		if !it.eligible(now) {
			continue
		}
		if best == -1 {
			best = i
			continue
		}
		b := s.items[best]
		if it.Priority > b.Priority || (it.Priority == b.Priority && it.seq < b.seq) {
			best = i
		}
	}
	if best == -1 {
		return nil
	}
	it := s.items[best]
	s.items = slices.Delete(s.items, best, best+1)
	return it
}
