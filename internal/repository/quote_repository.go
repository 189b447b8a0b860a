package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/spec-kit/diary-service/internal/domain"
)

// QuoteRepository reads imported quotes.
type QuoteRepository interface {
	Count(ctx context.Context) (int, error)
	// GetByOffset returns the quote at position offset in id order.
	GetByOffset(ctx context.Context, offset int) (*domain.Quote, error)
	GetByID(ctx context.Context, id string) (*domain.Quote, error)
	List(ctx context.Context, limit, offset int) ([]domain.Quote, error)
	// InsertIfAbsent stores the quote unless one with the same content and author exists.
	InsertIfAbsent(ctx context.Context, quote *domain.Quote) (bool, error)
}

type quoteRepository struct {
	pool DBTX
}

// NewQuoteRepository builds repository.
func NewQuoteRepository(pool DBTX) QuoteRepository {
	return &quoteRepository{pool: pool}
}

func (r *quoteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM quotes`).Scan(&n); err != nil {
		return 0, oops.Code("QUOTE_COUNT_FAILED").Wrap(err)
	}
	return n, nil
}

func (r *quoteRepository) GetByOffset(ctx context.Context, offset int) (*domain.Quote, error) {
	const query = `SELECT id, content, author FROM quotes ORDER BY id LIMIT 1 OFFSET $1`
	return r.scanOne(ctx, "offset", query, offset)
}

func (r *quoteRepository) GetByID(ctx context.Context, id string) (*domain.Quote, error) {
	const query = `SELECT id, content, author FROM quotes WHERE id=$1`
	return r.scanOne(ctx, "id", query, id)
}

func (r *quoteRepository) List(ctx context.Context, limit, offset int) ([]domain.Quote, error) {
	const query = `
        SELECT id, content, author FROM quotes
        ORDER BY created_at DESC, id DESC
        LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, oops.Code("QUOTE_LIST_FAILED").Wrap(err)
	}
	defer rows.Close()

	result := []domain.Quote{}
	for rows.Next() {
		var q domain.Quote
		if err := rows.Scan(&q.ID, &q.Content, &q.Author); err != nil {
			return nil, oops.Code("QUOTE_LIST_FAILED").Wrap(err)
		}
		result = append(result, q)
	}
	return result, rows.Err()
}

func (r *quoteRepository) InsertIfAbsent(ctx context.Context, quote *domain.Quote) (bool, error) {
	const query = `
        INSERT INTO quotes (content, author)
        SELECT $1, $2
        WHERE NOT EXISTS (SELECT 1 FROM quotes WHERE content=$1 AND author=$2)
        RETURNING id`

	err := r.pool.QueryRow(ctx, query, quote.Content, quote.Author).Scan(&quote.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, oops.Code("QUOTE_INSERT_FAILED").
			With("author", quote.Author).
			Wrap(err)
	}
	return true, nil
}

func (r *quoteRepository) scanOne(ctx context.Context, by, query string, arg any) (*domain.Quote, error) {
	var q domain.Quote
	if err := r.pool.QueryRow(ctx, query, arg).Scan(&q.ID, &q.Content, &q.Author); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pgx.ErrNoRows
		}
		return nil, oops.Code("QUOTE_GET_FAILED").
			With("by", by).
			Wrap(err)
	}
	return &q, nil
}
