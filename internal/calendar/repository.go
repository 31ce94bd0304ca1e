package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/better-pagination/better-pagination/internal/platform/db"
)

// Repository persists calendar events.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	// Count returns the number of events in calendar starting at or after from.
	Count(ctx context.Context, calendar string, from time.Time) (int, error)
	// List returns events ordered by start time.
	List(ctx context.Context, calendar string, from time.Time, limit, offset int) ([]Event, error)
	Create(ctx context.Context, event Event) (Event, error)
}

type dbtx interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

// NewTxRepository runs every query on tx.
func NewTxRepository(tx pgx.Tx) Repository {
	return &repository{db: tx}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	if r.pool == nil {
		return fn(ctx, r)
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

func (r *repository) Count(ctx context.Context, calendar string, from time.Time) (int, error) {
	const q = `
		SELECT COUNT(*)
		FROM events
		WHERE calendar = @calendar AND starts_at >= @from`

	var total int
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"calendar": calendar, "from": from}).Scan(&total); err != nil {
		return 0, fmt.Errorf("calendar.Repository.Count: %w", err)
	}
	return total, nil
}

func (r *repository) List(ctx context.Context, calendar string, from time.Time, limit, offset int) ([]Event, error) {
	const q = `
		SELECT id, calendar, title, location, starts_at, ends_at, created_at
		FROM events
		WHERE calendar = @calendar AND starts_at >= @from
		ORDER BY starts_at, id
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"calendar": calendar,
		"from":     from,
		"limit":    limit,
		"offset":   offset,
	})
	if err != nil {
		return nil, fmt.Errorf("calendar.Repository.List: %w", err)
	}
	defer rows.Close()

	events, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Event, error) {
		return scanEvent(row)
	})
	if err != nil {
		return nil, fmt.Errorf("calendar.Repository.List: scan: %w", err)
	}
	return events, nil
}

func (r *repository) Create(ctx context.Context, event Event) (Event, error) {
	const q = `
		INSERT INTO events (calendar, title, location, starts_at, ends_at)
		VALUES (@calendar, @title, @location, @starts_at, @ends_at)
		RETURNING id, calendar, title, location, starts_at, ends_at, created_at`

	created, err := scanEvent(r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"calendar":  event.Calendar,
		"title":     event.Title,
		"location":  event.Location,
		"starts_at": event.StartsAt,
		"ends_at":   event.EndsAt,
	}))
	if err != nil {
		return Event{}, fmt.Errorf("calendar.Repository.Create: %w", err)
	}
	return created, nil
}

func scanEvent(row pgx.Row) (Event, error) {
	var e Event
	err := row.Scan(&e.ID, &e.Calendar, &e.Title, &e.Location, &e.StartsAt, &e.EndsAt, &e.CreatedAt)
	return e, err
}
