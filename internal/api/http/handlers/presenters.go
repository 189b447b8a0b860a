package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/diary-service/internal/api/dto"
	"github.com/spec-kit/diary-service/internal/auth"
	"github.com/spec-kit/diary-service/internal/domain"
	"github.com/spec-kit/diary-service/internal/service"
)

func principal(c *fiber.Ctx) (*auth.Principal, error) {
	p, ok := auth.PrincipalFromContext(c)
	if !ok || p.User == nil {
		return nil, auth.Unauthorized(auth.ReasonInvalidToken)
	}
	return p, nil
}

func pageFromQuery(c *fiber.Ctx) service.Page {
	return service.Page{
		Limit:  c.QueryInt("limit", 0),
		Offset: c.QueryInt("offset", 0),
	}
}

func userResponse(u *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

func diaryResponse(d *domain.Diary) dto.DiaryResponse {
	return dto.DiaryResponse{
		ID:        d.ID,
		Title:     d.Title,
		Content:   d.Content,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func quoteResponse(q *domain.Quote) *dto.QuoteResponse {
	if q == nil {
		return nil
	}
	return &dto.QuoteResponse{ID: q.ID, Content: q.Content, Author: q.Author}
}

func bookmarkResponse(b *domain.Bookmark) dto.BookmarkResponse {
	return dto.BookmarkResponse{
		ID:        b.ID,
		QuoteID:   b.QuoteID,
		Quote:     quoteResponse(b.Quote),
		CreatedAt: b.CreatedAt,
	}
}
