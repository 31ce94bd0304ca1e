package entries

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

// NewService wires the repository with an optional count cache.
func NewService(repo Repository, counts Counter) *Service {
	return &Service{repo: repo, counts: counts, validate: validator.New()}
}

// List returns one page of open entries and the channel's total.
// Pages past the end skip the row query.
func (s *Service) List(ctx context.Context, req ListEntriesRequest) ([]Entry, int, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, 0, validationError(err)
	}

	total, err := s.count(ctx, req.Channel)
	if err != nil {
		return nil, 0, fmt.Errorf("count entries: %w", err)
	}
	if req.Offset >= total {
		return []Entry{}, total, nil
	}

	items, err := s.repo.List(ctx, req.Channel, req.Limit, req.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list entries: %w", err)
	}
	return items, total, nil
}

// Create publishes an entry and invalidates cached counts.
func (s *Service) Create(ctx context.Context, req CreateEntryRequest) (Entry, error) {
	created, err := s.CreateBatch(ctx, []CreateEntryRequest{req})
	if err != nil {
		return Entry{}, err
	}
	return created[0], nil
}

// CreateBatch publishes entries in one transaction.
func (s *Service) CreateBatch(ctx context.Context, reqs []CreateEntryRequest) ([]Entry, error) {
	for _, req := range reqs {
		if err := s.validate.Struct(req); err != nil {
			return nil, validationError(err)
		}
	}

	created := make([]Entry, 0, len(reqs))
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		for _, req := range reqs {
			status := req.Status
			if status == "" {
				status = StatusOpen
			}
			entry, err := repo.Create(ctx, Entry{
				Channel:   req.Channel,
				Title:     req.Title,
				URLTitle:  req.URLTitle,
				Body:      req.Body,
				Status:    status,
				EntryDate: req.EntryDate,
			})
			if err != nil {
				return err
			}
			created = append(created, entry)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create entries: %w", err)
	}

	if s.counts != nil {
		if err := s.counts.Bump(ctx); err != nil {
			return created, fmt.Errorf("bump count cache: %w", err)
		}
	}
	return created, nil
}

func (s *Service) count(ctx context.Context, channel string) (int, error) {
	if s.counts == nil {
		return s.repo.Count(ctx, channel)
	}
	return s.counts.Count(ctx, "entries:"+channel, func(ctx context.Context) (int, error) {
		return s.repo.Count(ctx, channel)
	})
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
