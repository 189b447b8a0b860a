package service

import (
	"context"
	"math/rand/v2"

	"github.com/spec-kit/diary-service/internal/domain"
	"github.com/spec-kit/diary-service/internal/repository"
	apperrors "github.com/spec-kit/diary-service/pkg/util/errorutil"
)

// QuestionService hands out reflection prompts, preferring ones the user has not seen.
type QuestionService struct {
	questions repository.QuestionRepository
	intn      func(n int) int
}

// NewQuestionService builds the service.
func NewQuestionService(questions repository.QuestionRepository) *QuestionService {
	return &QuestionService{questions: questions, intn: rand.IntN}
}

// Random returns an unseen question when one exists, otherwise any question,
// and records it as seen by userID.
func (s *QuestionService) Random(ctx context.Context, userID string) (*domain.Question, error) {
	question, err := s.pickUnseen(ctx, userID)
	if err != nil {
		return nil, err
	}
	if question == nil {
		if question, err = s.pickAny(ctx); err != nil {
			return nil, err
		}
	}
	if question == nil {
		return nil, apperrors.NewNotFound("question", nil)
	}

	if err := s.questions.MarkSeen(ctx, userID, question.ID); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *QuestionService) pickUnseen(ctx context.Context, userID string) (*domain.Question, error) {
	n, err := s.questions.CountUnseen(ctx, userID)
	if err != nil || n == 0 {
		return nil, err
	}
	return nilOnNoRows(s.questions.GetUnseenByOffset(ctx, userID, s.intn(n)))
}

func (s *QuestionService) pickAny(ctx context.Context) (*domain.Question, error) {
	n, err := s.questions.Count(ctx)
	if err != nil || n == 0 {
		return nil, err
	}
	return nilOnNoRows(s.questions.GetByOffset(ctx, s.intn(n)))
}
