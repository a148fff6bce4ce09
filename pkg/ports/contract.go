package ports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunJournalContract runs a suite of tests to verify that a Journal implementation
// adheres to the defined interface contract. The journal must start empty and
// retain at least five entries.
func RunJournalContract(t *testing.T, journal Journal) {
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Empty", func(t *testing.T) {
		entries, err := journal.Recent(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("Append and Recent", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			err := journal.Append(ctx, JournalEntry{
				From:          fmt.Sprintf("/page-%d", i),
				To:            fmt.Sprintf("/page-%d", i+1),
				Registrations: i,
				Duration:      time.Duration(i) * time.Millisecond,
				CompletedAt:   base.Add(time.Duration(i) * time.Second),
			})
			require.NoError(t, err, "Append should not return error")
		}

		entries, err := journal.Recent(ctx, 2)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "/page-3", entries[0].To, "newest entry comes first")
		assert.Equal(t, "/page-2", entries[1].To)
		assert.Equal(t, 2, entries[0].Registrations)
		assert.Equal(t, 2*time.Millisecond, entries[0].Duration)
		assert.True(t, entries[0].CompletedAt.Equal(base.Add(2*time.Second)))
	})

	t.Run("Recent All", func(t *testing.T) {
		entries, err := journal.Recent(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, entries, 3)
	})
}
