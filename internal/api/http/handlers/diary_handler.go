package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/diary-service/internal/api/dto"
	"github.com/spec-kit/diary-service/internal/service"
	apperrors "github.com/spec-kit/diary-service/pkg/util/errorutil"
)

// DiaryHandler manages the caller's diary entries.
type DiaryHandler struct {
	diaries *service.DiaryService
}

// NewDiaryHandler constructs handler.
func NewDiaryHandler(diaries *service.DiaryService) *DiaryHandler {
	return &DiaryHandler{diaries: diaries}
}

// Create POST /api/v1/diaries.
func (h *DiaryHandler) Create(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.DiaryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Title == nil || req.Content == nil {
		return apperrors.NewValidationError("title and content required", nil)
	}

	diary, err := h.diaries.Create(c.UserContext(), p.User.ID, *req.Title, *req.Content)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": diaryResponse(diary)})
}

// List GET /api/v1/diaries.
func (h *DiaryHandler) List(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	diaries, err := h.diaries.List(c.UserContext(), p.User.ID, pageFromQuery(c))
	if err != nil {
		return err
	}
	items := make([]dto.DiaryResponse, 0, len(diaries))
	for i := range diaries {
		items = append(items, diaryResponse(&diaries[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /api/v1/diaries/:id.
func (h *DiaryHandler) Get(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	diary, err := h.diaries.Get(c.UserContext(), p.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": diaryResponse(diary)})
}

// Update PATCH /api/v1/diaries/:id.
func (h *DiaryHandler) Update(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.DiaryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	diary, err := h.diaries.Update(c.UserContext(), p.User.ID, c.Params("id"), service.DiaryUpdate{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": diaryResponse(diary)})
}

// Delete DELETE /api/v1/diaries/:id.
func (h *DiaryHandler) Delete(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.diaries.Delete(c.UserContext(), p.User.ID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
