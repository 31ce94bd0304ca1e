package calendar

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/better-pagination/better-pagination/internal/platform/httpx"
)

// Counter caches row counts per scope.
type Counter interface {
	Count(ctx context.Context, scope string, loader func(context.Context) (int, error)) (int, error)
	Bump(ctx context.Context) error
}

type Service struct {
	repo     Repository
	counts   Counter
	validate *validator.Validate
}

func NewService(repo Repository, counts Counter) *Service {
	return &Service{repo: repo, counts: counts, validate: validator.New()}
}

// List returns one page of events and the calendar's total.
func (s *Service) List(ctx context.Context, req ListEventsRequest) ([]Event, int, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, 0, validationError(err)
	}

	scope := "events:" + req.Calendar
	if !req.From.IsZero() {
		scope += ":" + req.From.UTC().Format("20060102T150405")
	}
	load := func(ctx context.Context) (int, error) {
		return s.repo.Count(ctx, req.Calendar, req.From)
	}

	var (
		total int
		err   error
	)
	if s.counts != nil {
		total, err = s.counts.Count(ctx, scope, load)
	} else {
		total, err = load(ctx)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}
	if req.Offset >= total {
		return []Event{}, total, nil
	}

	events, err := s.repo.List(ctx, req.Calendar, req.From, req.Limit, req.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	return events, total, nil
}

// Schedule stores events in one transaction and invalidates cached counts.
func (s *Service) Schedule(ctx context.Context, reqs ...CreateEventRequest) ([]Event, error) {
	for _, req := range reqs {
		if err := s.validate.Struct(req); err != nil {
			return nil, validationError(err)
		}
	}

	created := make([]Event, 0, len(reqs))
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		for _, req := range reqs {
			event, err := repo.Create(ctx, Event{
				Calendar: req.Calendar,
				Title:    req.Title,
				Location: req.Location,
				StartsAt: req.StartsAt,
				EndsAt:   req.EndsAt,
			})
			if err != nil {
				return err
			}
			created = append(created, event)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("schedule events: %w", err)
	}

	if s.counts != nil {
		if err := s.counts.Bump(ctx); err != nil {
			return created, fmt.Errorf("bump count cache: %w", err)
		}
	}
	return created, nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", httpx.ErrValidation, strings.Join(fields, ", "))
}
