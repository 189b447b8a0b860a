package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/spec-kit/diary-service/internal/domain"
	"github.com/spec-kit/diary-service/internal/repository"
)

const defaultBookmarkPage = 50

// BookmarkService lets a principal save quotes.
type BookmarkService struct {
	bookmarks repository.BookmarkRepository
	quotes    repository.QuoteRepository
}

// NewBookmarkService builds the service.
func NewBookmarkService(bookmarks repository.BookmarkRepository, quotes repository.QuoteRepository) *BookmarkService {
	return &BookmarkService{bookmarks: bookmarks, quotes: quotes}
}

// Add bookmarks quoteID. created is false when the bookmark already existed.
func (s *BookmarkService) Add(ctx context.Context, userID, quoteID string) (*domain.Bookmark, bool, error) {
	if _, err := uuid.Parse(quoteID); err != nil {
		return nil, false, quoteNotFound(quoteID)
	}
	quote, err := nilOnNoRows(s.quotes.GetByID(ctx, quoteID))
	if err != nil {
		return nil, false, err
	}
	if quote == nil {
		return nil, false, quoteNotFound(quoteID)
	}

	bookmark, created, err := s.bookmarks.Create(ctx, userID, quoteID)
	if errors.Is(err, repository.ErrQuoteMissing) {
		return nil, false, quoteNotFound(quoteID)
	}
	if err != nil {
		return nil, false, err
	}
	bookmark.Quote = quote
	return bookmark, created, nil
}

// Remove deletes the bookmark if present.
func (s *BookmarkService) Remove(ctx context.Context, userID, quoteID string) error {
	if _, err := uuid.Parse(quoteID); err != nil {
		return nil
	}
	return s.bookmarks.Delete(ctx, userID, quoteID)
}

// List returns bookmarks newest first, each with its quote.
func (s *BookmarkService) List(ctx context.Context, userID string, page Page) ([]domain.Bookmark, error) {
	page, err := page.normalize(defaultBookmarkPage)
	if err != nil {
		return nil, err
	}
	return s.bookmarks.ListForUser(ctx, userID, page.Limit, page.Offset)
}
