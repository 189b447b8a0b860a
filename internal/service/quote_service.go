package service

import (
	"context"
	"errors"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/diary-service/internal/domain"
	"github.com/spec-kit/diary-service/internal/repository"
	apperrors "github.com/spec-kit/diary-service/pkg/util/errorutil"
)

const defaultQuotePage = 20

// QuoteService serves imported quotes.
type QuoteService struct {
	quotes repository.QuoteRepository
	intn   func(n int) int
}

// NewQuoteService builds the service.
func NewQuoteService(quotes repository.QuoteRepository) *QuoteService {
	return &QuoteService{quotes: quotes, intn: rand.IntN}
}

// Random picks a quote uniformly.
func (s *QuoteService) Random(ctx context.Context) (*domain.Quote, error) {
	n, err := s.quotes.Count(ctx)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, apperrors.NewNotFound("quote", nil)
	}
	quote, err := s.quotes.GetByOffset(ctx, s.intn(n))
	if errors.Is(err, pgx.ErrNoRows) {
		// Rows were deleted between the count and the fetch.
		return nil, apperrors.NewNotFound("quote", nil)
	}
	return quote, err
}

// Get returns a quote by id.
func (s *QuoteService) Get(ctx context.Context, id string) (*domain.Quote, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, quoteNotFound(id)
	}
	quote, err := s.quotes.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, quoteNotFound(id)
	}
	return quote, err
}

// List pages through quotes, newest first.
func (s *QuoteService) List(ctx context.Context, page Page) ([]domain.Quote, error) {
	page, err := page.normalize(defaultQuotePage)
	if err != nil {
		return nil, err
	}
	return s.quotes.List(ctx, page.Limit, page.Offset)
}

func quoteNotFound(id string) error {
	return apperrors.NewNotFound("quote", map[string]any{"id": id})
}
