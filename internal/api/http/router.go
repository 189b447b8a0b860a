package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/diary-service/internal/api/http/handlers"
	"github.com/spec-kit/diary-service/internal/auth"
	"github.com/spec-kit/diary-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Diaries        *handlers.DiaryHandler
	Quotes         *handlers.QuoteHandler
	Bookmarks      *handlers.BookmarkHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	if cfg.Health != nil {
		app.Get("/health/live", cfg.Health.Live)
		app.Get("/health/ready", cfg.Health.Ready)
	}
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Metrics.Registry(), promhttp.HandlerOpts{})))
	}

	api := app.Group("/api/v1")
	guard := cfg.AuthMiddleware.Handle

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/login-body", cfg.Auth.LoginBody)
	authGroup.Get("/me", guard, cfg.Auth.Me)
	authGroup.Post("/logout", guard, cfg.Auth.Logout)

	diaries := api.Group("/diaries", guard)
	diaries.Post("/", cfg.Diaries.Create)
	diaries.Get("/", cfg.Diaries.List)
	diaries.Get("/:id", cfg.Diaries.Get)
	diaries.Patch("/:id", cfg.Diaries.Update)
	diaries.Delete("/:id", cfg.Diaries.Delete)

	quotes := api.Group("/quotes", guard)
	quotes.Get("/random", cfg.Quotes.RandomQuote)
	quotes.Get("/", cfg.Quotes.ListQuotes)
	quotes.Get("/:id", cfg.Quotes.GetQuote)

	api.Get("/questions/random", guard, cfg.Quotes.RandomQuestion)

	bookmarks := api.Group("/bookmarks", guard)
	bookmarks.Get("/", cfg.Bookmarks.List)
	bookmarks.Post("/:quoteId", cfg.Bookmarks.Add)
	bookmarks.Delete("/:quoteId", cfg.Bookmarks.Remove)
}
