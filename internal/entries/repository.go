package entries

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/better-pagination/better-pagination/internal/platform/db"
	"github.com/better-pagination/better-pagination/internal/platform/httpx"
)

var ErrAlreadyExists = fmt.Errorf("entry %w", httpx.ErrConflict)

// Repository persists channel entries.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	// Count returns the number of open entries in channel.
	Count(ctx context.Context, channel string) (int, error)
	// List returns open entries in channel, newest first.
	List(ctx context.Context, channel string, limit, offset int) ([]Entry, error)
	Create(ctx context.Context, entry Entry) (Entry, error)
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

// NewRepository returns a pgx backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

// NewTxRepository runs every query on tx. WithTx is not supported on it.
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

func (r *repository) Count(ctx context.Context, channel string) (int, error) {
	const q = `
		SELECT COUNT(*)
		FROM entries
		WHERE channel = @channel AND status = @status`

	var total int
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"channel": channel, "status": StatusOpen}).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("entries.Repository.Count: %w", err)
	}
	return total, nil
}

func (r *repository) List(ctx context.Context, channel string, limit, offset int) ([]Entry, error) {
	const q = `
		SELECT id, channel, title, url_title, body, status, entry_date, created_at
		FROM entries
		WHERE channel = @channel AND status = @status
		ORDER BY entry_date DESC, id
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"channel": channel,
		"status":  StatusOpen,
		"limit":   limit,
		"offset":  offset,
	})
	if err != nil {
		return nil, fmt.Errorf("entries.Repository.List: %w", err)
	}
	defer rows.Close()

	result := make([]Entry, 0, limit)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("entries.Repository.List: scan: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("entries.Repository.List: rows: %w", err)
	}
	return result, nil
}

func (r *repository) Create(ctx context.Context, entry Entry) (Entry, error) {
	const q = `
		INSERT INTO entries (channel, title, url_title, body, status, entry_date)
		VALUES (@channel, @title, @url_title, @body, @status, @entry_date)
		RETURNING id, channel, title, url_title, body, status, entry_date, created_at`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"channel":    entry.Channel,
		"title":      entry.Title,
		"url_title":  entry.URLTitle,
		"body":       entry.Body,
		"status":     entry.Status,
		"entry_date": entry.EntryDate,
	})
	created, err := scanEntry(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Entry{}, fmt.Errorf("%w: %s/%s", ErrAlreadyExists, entry.Channel, entry.URLTitle)
		}
		return Entry{}, fmt.Errorf("entries.Repository.Create: %w", err)
	}
	return created, nil
}

func scanEntry(row pgx.Row) (Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.Channel, &e.Title, &e.URLTitle, &e.Body, &e.Status, &e.EntryDate, &e.CreatedAt)
	return e, err
}
