// internal/logring/ring.go
package logring

import (
	"sync"
	"time"

	"github.com/unclebandit/zapblast-backend/internal/model"
)

// DefaultCapacity bounds the history kept for the polling client.
const DefaultCapacity = 50

// Ring is a bounded, newest-first log store. Appends insert at the head and
// evict the oldest entries once the capacity is exceeded.
type Ring struct {
	mu      sync.Mutex
	entries []model.LogEntry
	cap     int
	seq     int64
}

// New creates a ring holding at most capacity entries.
func New(capacity int) *Ring {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Ring{cap: capacity}
}

// Append records a new entry at the head, stamping it with the current local
// time and the next sequence id, and returns the stored entry.
func (r *Ring) Append(message, entryType string) model.LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	e := model.LogEntry{
		Seq:       r.seq,
		Timestamp: time.Now().Format("02/01/2006 15:04:05"),
		Message:   message,
		Type:      entryType,
	}
	r.entries = append([]model.LogEntry{e}, r.entries...)
	if len(r.entries) > r.cap {
		r.entries = r.entries[:r.cap]
	}
	return e
}

// RecentN returns up to n entries, newest first.
func (r *Ring) RecentN(n int) []model.LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n < 0 {
		n = 0
	}
	if n > len(r.entries) {
		n = len(r.entries)
	}
	out := make([]model.LogEntry, n)
	copy(out, r.entries[:n])
	return out
}

// All returns every retained entry, newest first.
func (r *Ring) All() []model.LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.LogEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len reports how many entries are currently retained.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
