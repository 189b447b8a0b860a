package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/spec-kit/diary-service/internal/domain"
)

// ErrQuoteMissing is returned by Create when the referenced quote does not exist.
var ErrQuoteMissing = errors.New("quote does not exist")

// BookmarkRepository persists saved quotes per user.
type BookmarkRepository interface {
	// Create inserts the bookmark or returns the existing one with created=false.
	Create(ctx context.Context, userID, quoteID string) (*domain.Bookmark, bool, error)
	Delete(ctx context.Context, userID, quoteID string) error
	ListForUser(ctx context.Context, userID string, limit, offset int) ([]domain.Bookmark, error)
}

type bookmarkRepository struct {
	pool DBTX
}

// NewBookmarkRepository builds repository.
func NewBookmarkRepository(pool DBTX) BookmarkRepository {
	return &bookmarkRepository{pool: pool}
}

func (r *bookmarkRepository) Create(ctx context.Context, userID, quoteID string) (*domain.Bookmark, bool, error) {
	const insert = `
        INSERT INTO bookmarks (user_id, quote_id)
        VALUES ($1, $2)
        ON CONFLICT (user_id, quote_id) DO NOTHING
        RETURNING id, created_at`

	bookmark := domain.Bookmark{UserID: userID, QuoteID: quoteID}
	err := r.pool.QueryRow(ctx, insert, userID, quoteID).Scan(&bookmark.ID, &bookmark.CreatedAt)
	switch {
	case err == nil:
		return &bookmark, true, nil
	case foreignKeyViolation(err):
		return nil, false, ErrQuoteMissing
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, false, oops.Code("BOOKMARK_CREATE_FAILED").
			With("user_id", userID).
			With("quote_id", quoteID).
			Wrap(err)
	}

	const existing = `SELECT id, created_at FROM bookmarks WHERE user_id=$1 AND quote_id=$2`
	if err := r.pool.QueryRow(ctx, existing, userID, quoteID).Scan(&bookmark.ID, &bookmark.CreatedAt); err != nil {
		return nil, false, oops.Code("BOOKMARK_GET_FAILED").
			With("user_id", userID).
			With("quote_id", quoteID).
			Wrap(err)
	}
	return &bookmark, false, nil
}

func (r *bookmarkRepository) Delete(ctx context.Context, userID, quoteID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM bookmarks WHERE user_id=$1 AND quote_id=$2`, userID, quoteID); err != nil {
		return oops.Code("BOOKMARK_DELETE_FAILED").
			With("user_id", userID).
			With("quote_id", quoteID).
			Wrap(err)
	}
	return nil
}

func (r *bookmarkRepository) ListForUser(ctx context.Context, userID string, limit, offset int) ([]domain.Bookmark, error) {
	const query = `
        SELECT b.id, b.user_id, b.quote_id, b.created_at, q.content, q.author
        FROM bookmarks b
        JOIN quotes q ON q.id = b.quote_id
        WHERE b.user_id=$1
        ORDER BY b.created_at DESC, b.id DESC
        LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, oops.Code("BOOKMARK_LIST_FAILED").
			With("user_id", userID).
			Wrap(err)
	}
	defer rows.Close()

	result := []domain.Bookmark{}
	for rows.Next() {
		var (
			b domain.Bookmark
			q domain.Quote
		)
		if err := rows.Scan(&b.ID, &b.UserID, &b.QuoteID, &b.CreatedAt, &q.Content, &q.Author); err != nil {
			return nil, oops.Code("BOOKMARK_LIST_FAILED").Wrap(err)
		}
		q.ID = b.QuoteID
		b.Quote = &q
		result = append(result, b)
	}
	return result, rows.Err()
}
