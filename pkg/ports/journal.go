package ports

import (
	"context"
	"time"
)

// JournalEntry describes one completed transition cycle.
type JournalEntry struct {
	From          string        `json:"from"`
	To            string        `json:"to"`
	Registrations int           `json:"registrations"`
	Duration      time.Duration `json:"duration"`
	CompletedAt   time.Time     `json:"completed_at"`
}

// Journal records completed transition cycles.
type Journal interface {
	// Append records an entry.
	Append(ctx context.Context, entry JournalEntry) error

	// Recent returns up to n entries, newest first. n <= 0 returns everything retained.
	Recent(ctx context.Context, n int) ([]JournalEntry, error)
}
