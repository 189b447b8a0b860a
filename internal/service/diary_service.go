package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/diary-service/internal/domain"
	"github.com/spec-kit/diary-service/internal/repository"
	apperrors "github.com/spec-kit/diary-service/pkg/util/errorutil"
)

const (
	maxTitleLength   = 255
	defaultDiaryPage = 20
)

// DiaryUpdate carries a partial update. Nil fields are left untouched.
type DiaryUpdate struct {
	Title   *string
	Content *string
}

// DiaryService manages a principal's own diary entries.
type DiaryService struct {
	diaries repository.DiaryRepository
}

// NewDiaryService builds the service.
func NewDiaryService(diaries repository.DiaryRepository) *DiaryService {
	return &DiaryService{diaries: diaries}
}

// Create stores a new entry for userID.
func (s *DiaryService) Create(ctx context.Context, userID, title, content string) (*domain.Diary, error) {
	if err := validateDiary(title, content); err != nil {
		return nil, err
	}
	diary := &domain.Diary{UserID: userID, Title: title, Content: content}
	if err := s.diaries.Create(ctx, diary); err != nil {
		return nil, err
	}
	return diary, nil
}

// List returns the newest entries first.
func (s *DiaryService) List(ctx context.Context, userID string, page Page) ([]domain.Diary, error) {
	page, err := page.normalize(defaultDiaryPage)
	if err != nil {
		return nil, err
	}
	return s.diaries.ListForUser(ctx, userID, page.Limit, page.Offset)
}

// Get returns one entry. Entries of other users are reported as missing.
func (s *DiaryService) Get(ctx context.Context, userID, id string) (*domain.Diary, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, diaryNotFound(id)
	}
	diary, err := s.diaries.GetForUser(ctx, id, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, diaryNotFound(id)
	}
	return diary, err
}

// Update applies a partial update.
func (s *DiaryService) Update(ctx context.Context, userID, id string, update DiaryUpdate) (*domain.Diary, error) {
	if update.Title == nil && update.Content == nil {
		return nil, apperrors.NewValidationError("title or content required", nil)
	}
	diary, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if update.Title != nil {
		diary.Title = *update.Title
	}
	if update.Content != nil {
		diary.Content = *update.Content
	}
	if err := validateDiary(diary.Title, diary.Content); err != nil {
		return nil, err
	}

	if err := s.diaries.Update(ctx, diary); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, diaryNotFound(id)
		}
		return nil, err
	}
	return diary, nil
}

// Delete removes an entry.
func (s *DiaryService) Delete(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return diaryNotFound(id)
	}
	err := s.diaries.Delete(ctx, id, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return diaryNotFound(id)
	}
	return err
}

func validateDiary(title, content string) error {
	details := map[string]any{}
	if strings.TrimSpace(title) == "" {
		details["title"] = "required"
	} else if utf8.RuneCountInString(title) > maxTitleLength {
		details["title"] = "must be at most 255 characters"
	}
	if strings.TrimSpace(content) == "" {
		details["content"] = "required"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid diary", details)
	}
	return nil
}

func diaryNotFound(id string) error {
	return apperrors.NewNotFound("diary", map[string]any{"id": id})
}
