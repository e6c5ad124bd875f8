package audit

import (
	"context"
	"sync"
)

// DefaultCapacity is the number of entries a MemorySink keeps by default.
const DefaultCapacity = 500

// MemorySink keeps the most recent entries in a fixed-size ring.
type MemorySink struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	full    bool
}

// NewMemorySink returns a sink holding up to capacity entries.
func NewMemorySink(capacity int) *MemorySink {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemorySink{entries: make([]Entry, capacity)}
}

// Write stores e, evicting the oldest entry when full.
func (m *MemorySink) Write(_ context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[m.next] = e
	m.next = (m.next + 1) % len(m.entries)
	if m.next == 0 {
		m.full = true
	}
	return nil
}

// Len returns the number of stored entries.
func (m *MemorySink) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.full {
		return len(m.entries)
	}
	return m.next
}

// List returns matching entries, newest first.
func (m *MemorySink) List(_ context.Context, opts ListOptions) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := m.next
	if m.full {
		n = len(m.entries)
	}

	out := make([]Entry, 0, min(n, opts.limit()))
	skipped := 0
	for i := 0; i < n && len(out) < opts.limit(); i++ {
		idx := (m.next - 1 - i + len(m.entries)) % len(m.entries)
		e := m.entries[idx]
		if !opts.matches(e) {
			continue
		}
		if skipped < opts.Offset {
			skipped++
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
