package queue

// deadLetter is a bounded buffer of permanently failed items. When
// full, the oldest entry is evicted to make room. Not safe for
// concurrent use; the queue serializes access under its own mutex.
type deadLetter struct {
	items    []*Item
	capacity int
}

func newDeadLetter(capacity int) *deadLetter {
	return &deadLetter{capacity: capacity}
}

// push appends an item, evicting the oldest entry when at capacity.
// It returns the evicted item, or nil.
func (d *deadLetter) push(it *Item) *Item {
	var evicted *Item
	if len(d.items) >= d.capacity {
		evicted = d.items[0]
		d.items = d.items[1:]
	}
	d.items = append(d.items, it)
	return evicted
}

func (d *deadLetter) len() int {
	return len(d.items)
}

// list returns copies of all entries, oldest first.
func (d *deadLetter) list() []Item {
	out := make([]Item, 0, len(d.items))
	for _, it := range d.items {
		out = append(out, *it)
	}
	return out
}

// take removes and returns entries matching the given IDs. With no
// IDs, it removes and returns everything.
func (d *deadLetter) take(ids ...string) []*Item {
	if len(ids) == 0 {
		taken := d.items
		d.items = nil
		return taken
	}

	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	var taken []*Item
	kept := d.items[:0]
	for _, it := range d.items {
		if _, ok := want[it.ID]; ok {
			taken = append(taken, it)
		} else {
			kept = append(kept, it)
		}
	}
	d.items = kept
	return taken
}

// clear drops all entries and returns how many were removed.
func (d *deadLetter) clear() int {
	n := len(d.items)
	d.items = nil
	return n
}
