package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/diary-service/internal/api/dto"
	"github.com/spec-kit/diary-service/internal/service"
)

// BookmarkHandler manages saved quotes.
type BookmarkHandler struct {
	bookmarks *service.BookmarkService
}

// NewBookmarkHandler constructs handler.
func NewBookmarkHandler(bookmarks *service.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{bookmarks: bookmarks}
}

// Add POST /api/v1/bookmarks/:quoteId. 201 when new, 200 when it already existed.
func (h *BookmarkHandler) Add(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	bookmark, created, err := h.bookmarks.Add(c.UserContext(), p.User.ID, c.Params("quoteId"))
	if err != nil {
		return err
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{"data": bookmarkResponse(bookmark)})
}

// Remove DELETE /api/v1/bookmarks/:quoteId.
func (h *BookmarkHandler) Remove(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.bookmarks.Remove(c.UserContext(), p.User.ID, c.Params("quoteId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// List GET /api/v1/bookmarks.
func (h *BookmarkHandler) List(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	bookmarks, err := h.bookmarks.List(c.UserContext(), p.User.ID, pageFromQuery(c))
	if err != nil {
		return err
	}
	items := make([]dto.BookmarkResponse, 0, len(bookmarks))
	for i := range bookmarks {
		items = append(items, bookmarkResponse(&bookmarks[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
