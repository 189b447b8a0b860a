package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/diary-service/internal/api/http"
	"github.com/spec-kit/diary-service/internal/api/http/handlers"
	"github.com/spec-kit/diary-service/internal/auth"
	"github.com/spec-kit/diary-service/internal/config"
	"github.com/spec-kit/diary-service/internal/events"
	"github.com/spec-kit/diary-service/internal/observability"
	"github.com/spec-kit/diary-service/internal/persistence"
	"github.com/spec-kit/diary-service/internal/repository"
	"github.com/spec-kit/diary-service/internal/revocation"
	"github.com/spec-kit/diary-service/internal/service"
	"github.com/spec-kit/diary-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Name)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.Auth.RefreshSecretShared() {
		logger.Warn("AUTH_REFRESH_SECRET_KEY not set; refresh tokens share the access signing secret")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations && pg.PoolHandle() != nil {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics("diary")
	dispatcher := events.NewInMemoryDispatcher()
	service.NewAuditService(dispatcher, logger, metrics).RegisterHandlers()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	quoteRepo := repository.NewQuoteRepository(pool)

	var cache revocation.Cache
	if redis.Enabled() {
		cache = redis.Client
	}
	revocations := revocation.NewCachedStore(repository.NewRevocationRepository(pool), cache, logger)

	codec, err := auth.NewTokenCodec(cfg.Auth)
	if err != nil {
		logger.Fatal("failed to build token codec", zap.Error(err))
	}

	authService, err := service.NewAuthService(service.AuthDependencies{
		Users:       userRepo,
		Revocations: revocations,
		Tokens:      codec,
		Hasher:      auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		Dispatcher:  dispatcher,
		Failures:    metrics,
		Logger:      logger,
	})
	if err != nil {
		logger.Fatal("failed to build auth service", zap.Error(err))
	}
	resolver := auth.NewIdentityResolver(codec, revocations, userRepo)

	if pool != nil {
		purger := worker.NewPurgeWorker(revocations, cfg.Auth.RevocationPurgeInterval(), logger, metrics)
		go purger.Run(ctx)
	}

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:   handlers.NewAuthHandler(authService),
		Diaries: handlers.NewDiaryHandler(
			service.NewDiaryService(repository.NewDiaryRepository(pool)),
		),
		Quotes: handlers.NewQuoteHandler(
			service.NewQuoteService(quoteRepo),
			service.NewQuestionService(repository.NewQuestionRepository(pool)),
		),
		Bookmarks: handlers.NewBookmarkHandler(
			service.NewBookmarkService(repository.NewBookmarkRepository(pool), quoteRepo),
		),
		AuthMiddleware: auth.NewAuthMiddleware(resolver, metrics),
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
