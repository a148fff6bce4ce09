package memory

import (
	"context"
	"sync"

	"github.com/aretw0/curtain/pkg/ports"
)

// DefaultJournalLimit is the number of entries kept when no limit is given.
const DefaultJournalLimit = 100

// Journal implements ports.Journal in memory, keeping the newest entries.
// Safe for concurrent use.
type Journal struct {
	mu      sync.RWMutex
	entries []ports.JournalEntry // oldest first
	limit   int
}

// NewJournal creates a journal keeping at most limit entries.
func NewJournal(limit int) *Journal {
	if limit <= 0 {
		limit = DefaultJournalLimit
	}
	return &Journal{limit: limit}
}

// Append records an entry, evicting the oldest one when full.
func (j *Journal) Append(ctx context.Context, entry ports.JournalEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.entries = append(j.entries, entry)
	if over := len(j.entries) - j.limit; over > 0 {
		j.entries = append([]ports.JournalEntry(nil), j.entries[over:]...)
	}
	return nil
}

// Recent returns up to n entries, newest first.
func (j *Journal) Recent(ctx context.Context, n int) ([]ports.JournalEntry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if n <= 0 || n > len(j.entries) {
		n = len(j.entries)
	}
	out := make([]ports.JournalEntry, 0, n)
	for i := len(j.entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, j.entries[i])
	}
	return out, nil
}
