package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/backoffice-service/internal/api/http"
	"github.com/spec-kit/backoffice-service/internal/api/http/handlers"
	"github.com/spec-kit/backoffice-service/internal/auth"
	"github.com/spec-kit/backoffice-service/internal/config"
	"github.com/spec-kit/backoffice-service/internal/events"
	"github.com/spec-kit/backoffice-service/internal/observability"
	"github.com/spec-kit/backoffice-service/internal/persistence"
	"github.com/spec-kit/backoffice-service/internal/repository"
	"github.com/spec-kit/backoffice-service/internal/service"
	"github.com/spec-kit/backoffice-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	rdb := persistence.NewRedis(cfg.Redis, logger)
	defer rdb.Close()

	pool := pg.PoolHandle()
	accountRepo := repository.NewAccountRepository(pool)
	threadRepo := repository.NewThreadRepository(pool)

	sessionStore := auth.NewRedisSessionStore(rdb.Client)

	authService := service.NewAuthService(*cfg, accountRepo, sessionStore, logger)
	resolver := auth.NewResolver(sessionStore, authService.TokenManager(), accountRepo)
	authMiddleware := auth.NewMiddleware(resolver, cfg.Session.CookieName)

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger)
	worker.StartNotificationWorker(notificationService)

	publisher := events.NewFanOutPublisher(
		dispatcher,
		events.NewRedisPublisher(rdb.Client, cfg.Notifier.Channel),
	)

	accountService := service.NewAccountService(accountRepo, sessionStore, cfg.Auth.BcryptCost)
	threadService := service.NewThreadService(threadRepo, publisher, logger)

	app := fiber.New()
	metrics := observability.NewMetrics()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, rdb),
		Auth:           handlers.NewAuthHandler(authService, cfg.Session.CookieName),
		Threads:        handlers.NewThreadsHandler(threadService),
		Accounts:       handlers.NewAccountsHandler(accountService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
