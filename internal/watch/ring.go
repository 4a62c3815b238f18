package watch

import (
	"fmt"
	"sync"
)

// Record describes one filesystem event. Path is relative to the base
// directory. Time is the target's modification time in Unix seconds at the
// moment the event was recorded, nil when the path no longer exists (e.g.
// on deletion).
type Record struct {
	Path string   `json:"path"`
	Type string   `json:"type"`
	Time *float64 `json:"time"`
}

// Ring is a bounded FIFO of change records. Appends evict the oldest record
// once the capacity is reached. All methods are safe for concurrent use;
// the watcher goroutine appends while query callers snapshot.
type Ring struct {
	mu       sync.Mutex
	capacity int
	records  []Record
}

// NewRing creates a ring holding at most capacity records.
func NewRing(capacity int) (*Ring, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("ring capacity must be positive, got %d", capacity)
	}
	return &Ring{
		capacity: capacity,
		records:  make([]Record, 0, capacity),
	}, nil
}

// Append adds a record, evicting the oldest one when the ring is full.
func (r *Ring) Append(rec Record) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.records) == r.capacity {
		copy(r.records, r.records[1:])
		r.records = r.records[:r.capacity-1]
	}
	r.records = append(r.records, rec)
}

// Recent returns a snapshot of the current contents in insertion order,
// oldest first. The returned slice is a copy; callers may keep it.
func (r *Ring) Recent() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// Len returns the number of records currently held.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}
