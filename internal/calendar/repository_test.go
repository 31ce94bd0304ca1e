package calendar_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/better-pagination/better-pagination/internal/calendar"
	"github.com/better-pagination/better-pagination/testutil"
)

func TestRepositoryListFrom(t *testing.T) {
	repo := calendar.NewTxRepository(testutil.NewTx(t))
	ctx := context.Background()
	name := fmt.Sprintf("it-%d", time.Now().UnixNano())
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 6; i++ {
		ends := start.AddDate(0, 0, i).Add(time.Hour)
		_, err := repo.Create(ctx, calendar.Event{
			Calendar: name,
			Title:    fmt.Sprintf("Event %d", i),
			StartsAt: start.AddDate(0, 0, i),
			EndsAt:   &ends,
		})
		require.NoError(t, err)
	}

	from := start.AddDate(0, 0, 2)
	total, err := repo.Count(ctx, name, from)
	require.NoError(t, err)
	assert.Equal(t, 4, total)

	events, err := repo.List(ctx, name, from, 2, 1)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Event 3", events[0].Title)
	require.NotNil(t, events[0].EndsAt)
}
