package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/diary-service/internal/api/dto"
	"github.com/spec-kit/diary-service/internal/service"
)

// QuoteHandler serves quotes and reflection questions.
type QuoteHandler struct {
	quotes    *service.QuoteService
	questions *service.QuestionService
}

// NewQuoteHandler constructs handler.
func NewQuoteHandler(quotes *service.QuoteService, questions *service.QuestionService) *QuoteHandler {
	return &QuoteHandler{quotes: quotes, questions: questions}
}

// RandomQuote GET /api/v1/quotes/random.
func (h *QuoteHandler) RandomQuote(c *fiber.Ctx) error {
	quote, err := h.quotes.Random(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": quoteResponse(quote)})
}

// GetQuote GET /api/v1/quotes/:id.
func (h *QuoteHandler) GetQuote(c *fiber.Ctx) error {
	quote, err := h.quotes.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": quoteResponse(quote)})
}

// ListQuotes GET /api/v1/quotes.
func (h *QuoteHandler) ListQuotes(c *fiber.Ctx) error {
	quotes, err := h.quotes.List(c.UserContext(), pageFromQuery(c))
	if err != nil {
		return err
	}
	items := make([]*dto.QuoteResponse, 0, len(quotes))
	for i := range quotes {
		items = append(items, quoteResponse(&quotes[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// RandomQuestion GET /api/v1/questions/random.
func (h *QuoteHandler) RandomQuestion(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	question, err := h.questions.Random(c.UserContext(), p.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.QuestionResponse{ID: question.ID, Content: question.Text}})
}
