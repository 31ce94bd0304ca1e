package calendar

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type fakeRepository struct {
	mu     sync.Mutex
	events []Event
}

func (f *fakeRepository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, f)
}

func (f *fakeRepository) matching(calendar string, from time.Time) []Event {
	var out []Event
	for _, e := range f.events {
		if e.Calendar == calendar && !e.StartsAt.Before(from) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out
}

func (f *fakeRepository) Count(_ context.Context, calendar string, from time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.matching(calendar, from)), nil
}

func (f *fakeRepository) List(_ context.Context, calendar string, from time.Time, limit, offset int) ([]Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := f.matching(calendar, from)
	if offset >= len(all) {
		return []Event{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (f *fakeRepository) Create(_ context.Context, event Event) (Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	event.ID = uuid.New()
	event.CreatedAt = time.Now().UTC()
	f.events = append(f.events, event)
	return event, nil
}

var eventsStart = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// seedEvents adds n daily events to calendar.
func seedEvents(f *fakeRepository, calendar string, n int) {
	for i := 0; i < n; i++ {
		f.events = append(f.events, Event{
			ID:       uuid.New(),
			Calendar: calendar,
			Title:    fmt.Sprintf("Event %02d", i+1),
			StartsAt: eventsStart.AddDate(0, 0, i),
		})
	}
}
