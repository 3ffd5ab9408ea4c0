package queue

import "encoding/json"

// Item is one candidate post: its numeric identifier plus the raw archive
// record it came from. Immutable once enqueued; the raw bytes are carried so
// the checkpoint can replay unconsumed records in their original shape.
type Item struct {
	ID  uint64
	Raw json.RawMessage
}

// Queue is an ordered FIFO over Items. Insertion order mirrors archive order
// and is never changed; only Advance removes items, and only from the head.
type Queue struct {
	items []Item
}

// New builds a queue over the given items. The slice is copied so callers
// cannot mutate the queue underneath the driver.
func New(items []Item) *Queue {
	cp := make([]Item, len(items))
	copy(cp, items)
	return &Queue{items: cp}
}

// Head returns the next item to process without removing it.
func (q *Queue) Head() (Item, bool) {
	if len(q.items) == 0 {
		return Item{}, false
	}
	return q.items[0], true
}

// Advance removes the head item. It must be called exactly when that item
// reached a terminal outcome, never while it is still retrying.
func (q *Queue) Advance() {
	if len(q.items) == 0 {
		return
	}
	q.items = q.items[1:]
}

// Len returns the number of pending items.
func (q *Queue) Len() int {
	return len(q.items)
}

// Empty reports whether all items have been resolved.
func (q *Queue) Empty() bool {
	return len(q.items) == 0
}

// Pending returns the raw records still awaiting resolution, head first.
func (q *Queue) Pending() []json.RawMessage {
	out := make([]json.RawMessage, len(q.items))
	for i, item := range q.items {
		out[i] = item.Raw
	}
	return out
}
