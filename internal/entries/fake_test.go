package entries

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type fakeRepository struct {
	mu        sync.Mutex
	entries   []Entry
	countCall int
	listCall  int
}

func (f *fakeRepository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, f)
}

func (f *fakeRepository) Count(_ context.Context, channel string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.countCall++
	n := 0
	for _, e := range f.entries {
		if e.Channel == channel && e.Status == StatusOpen {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepository) List(_ context.Context, channel string, limit, offset int) ([]Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCall++
	var open []Entry
	for _, e := range f.entries {
		if e.Channel == channel && e.Status == StatusOpen {
			open = append(open, e)
		}
	}
	sort.SliceStable(open, func(i, j int) bool { return open[i].EntryDate.After(open[j].EntryDate) })
	if offset >= len(open) {
		return []Entry{}, nil
	}
	end := offset + limit
	if end > len(open) {
		end = len(open)
	}
	return open[offset:end], nil
}

func (f *fakeRepository) Create(_ context.Context, entry Entry) (Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.Channel == entry.Channel && e.URLTitle == entry.URLTitle {
			return Entry{}, fmt.Errorf("%w: %s/%s", ErrAlreadyExists, entry.Channel, entry.URLTitle)
		}
	}
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now().UTC()
	f.entries = append(f.entries, entry)
	return entry, nil
}

// seedEntries adds n open entries to channel, newest first by index.
func seedEntries(f *fakeRepository, channel string, n int) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		f.entries = append(f.entries, Entry{
			ID:        uuid.New(),
			Channel:   channel,
			Title:     fmt.Sprintf("Entry %03d", i+1),
			URLTitle:  fmt.Sprintf("entry-%03d", i+1),
			Status:    StatusOpen,
			EntryDate: base.Add(-time.Duration(i) * time.Hour),
		})
	}
}
