package entries_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/better-pagination/better-pagination/internal/entries"
	"github.com/better-pagination/better-pagination/testutil"
)

func TestRepositoryCountAndList(t *testing.T) {
	repo := entries.NewTxRepository(testutil.NewTx(t))
	ctx := context.Background()
	channel := fmt.Sprintf("it-%d", time.Now().UnixNano())
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 7; i++ {
		_, err := repo.Create(ctx, entries.Entry{
			Channel:   channel,
			Title:     fmt.Sprintf("Entry %d", i),
			URLTitle:  fmt.Sprintf("entry-%d", i),
			Status:    entries.StatusOpen,
			EntryDate: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, entries.Entry{
		Channel: channel, Title: "Hidden", URLTitle: "hidden", Status: entries.StatusClosed, EntryDate: base,
	})
	require.NoError(t, err)

	total, err := repo.Count(ctx, channel)
	require.NoError(t, err)
	assert.Equal(t, 7, total)

	page, err := repo.List(ctx, channel, 3, 3)
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, "Entry 3", page[0].Title)
	assert.NotEqual(t, [16]byte{}, page[0].ID)
}

func TestRepositoryCreateDuplicate(t *testing.T) {
	repo := entries.NewTxRepository(testutil.NewTx(t))
	ctx := context.Background()
	entry := entries.Entry{
		Channel: "dup", Title: "One", URLTitle: "one", Status: entries.StatusOpen, EntryDate: time.Now(),
	}

	_, err := repo.Create(ctx, entry)
	require.NoError(t, err)
	_, err = repo.Create(ctx, entry)
	assert.ErrorIs(t, err, entries.ErrAlreadyExists)
}
