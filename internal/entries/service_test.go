package entries

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/better-pagination/better-pagination/internal/platform/cache"
	"github.com/better-pagination/better-pagination/internal/platform/httpx"
)

func newCachedService(t *testing.T, repo *fakeRepository) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewService(repo, cache.NewCountCache(client, time.Minute, nil, nil))
}

func TestServiceListPages(t *testing.T) {
	repo := &fakeRepository{}
	seedEntries(repo, "blog", 25)
	svc := NewService(repo, nil)

	items, total, err := svc.List(context.Background(), ListEntriesRequest{Channel: "blog", Limit: 10, Offset: 20})
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	require.Len(t, items, 5)
	assert.Equal(t, "Entry 021", items[0].Title)
}

func TestServiceListPastEndSkipsQuery(t *testing.T) {
	repo := &fakeRepository{}
	seedEntries(repo, "blog", 5)
	svc := NewService(repo, nil)

	items, total, err := svc.List(context.Background(), ListEntriesRequest{Channel: "blog", Limit: 10, Offset: 50})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Empty(t, items)
	assert.Zero(t, repo.listCall)
}

func TestServiceListValidation(t *testing.T) {
	svc := NewService(&fakeRepository{}, nil)

	cases := map[string]ListEntriesRequest{
		"missing channel": {Limit: 10},
		"zero limit":      {Channel: "blog"},
		"limit too large": {Channel: "blog", Limit: 5000},
		"negative offset": {Channel: "blog", Limit: 10, Offset: -1},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := svc.List(context.Background(), req)
			assert.ErrorIs(t, err, httpx.ErrValidation)
		})
	}
}

func TestServiceCountIsCached(t *testing.T) {
	repo := &fakeRepository{}
	seedEntries(repo, "blog", 12)
	svc := newCachedService(t, repo)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, total, err := svc.List(ctx, ListEntriesRequest{Channel: "blog", Limit: 5})
		require.NoError(t, err)
		assert.Equal(t, 12, total)
	}
	assert.Equal(t, 1, repo.countCall)
}

func TestServiceCreateInvalidatesCount(t *testing.T) {
	repo := &fakeRepository{}
	seedEntries(repo, "blog", 3)
	svc := newCachedService(t, repo)
	ctx := context.Background()

	_, total, err := svc.List(ctx, ListEntriesRequest{Channel: "blog", Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	created, err := svc.Create(ctx, CreateEntryRequest{
		Channel:   "blog",
		Title:     "Fresh",
		URLTitle:  "fresh",
		EntryDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, StatusOpen, created.Status)
	assert.NotEqual(t, [16]byte{}, created.ID)

	items, total, err := svc.List(ctx, ListEntriesRequest{Channel: "blog", Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Equal(t, "Fresh", items[0].Title)
}

func TestServiceCreateRejectsDuplicate(t *testing.T) {
	repo := &fakeRepository{}
	seedEntries(repo, "blog", 1)
	svc := NewService(repo, nil)

	_, err := svc.Create(context.Background(), CreateEntryRequest{
		Channel:   "blog",
		Title:     "Again",
		URLTitle:  "entry-001",
		EntryDate: time.Now(),
	})
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.ErrorIs(t, err, httpx.ErrConflict)
}

func TestServiceCreateValidation(t *testing.T) {
	svc := NewService(&fakeRepository{}, nil)

	_, err := svc.Create(context.Background(), CreateEntryRequest{Channel: "blog", URLTitle: "x", EntryDate: time.Now()})
	assert.ErrorIs(t, err, httpx.ErrValidation)
	assert.Contains(t, err.Error(), "Title")

	_, err = svc.Create(context.Background(), CreateEntryRequest{
		Channel: "blog", Title: "x", URLTitle: "x", Status: "draft", EntryDate: time.Now(),
	})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}
