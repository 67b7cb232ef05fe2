package frpc

import (
	"sync"
	"time"
)

const DefaultLogCapacity = 200

type LogEntry struct {
	Message string
	Level   string
	Time    time.Time
}

// LogBuffer keeps the most recent entries in a fixed ring, evicting the
// oldest first.
type LogBuffer struct {
	mu      sync.Mutex
	entries []LogEntry
	start   int
	size    int
}

func NewLogBuffer(capacity int) *LogBuffer {
	if capacity <= 0 {
		capacity = DefaultLogCapacity
	}
	return &LogBuffer{entries: make([]LogEntry, capacity)}
}

func (b *LogBuffer) Append(e LogEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.size < len(b.entries) {
		b.entries[(b.start+b.size)%len(b.entries)] = e
		b.size++
		return
	}
	b.entries[b.start] = e
	b.start = (b.start + 1) % len(b.entries)
}

// Entries returns a copy, oldest first.
func (b *LogBuffer) Entries() []LogEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]LogEntry, b.size)
	for i := 0; i < b.size; i++ {
		out[i] = b.entries[(b.start+i)%len(b.entries)]
	}
	return out
}

func (b *LogBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}

func (b *LogBuffer) Cap() int {
	return len(b.entries)
}
