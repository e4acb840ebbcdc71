package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/streamline-erp/ticket-service/internal/api/http"
	"github.com/streamline-erp/ticket-service/internal/api/http/handlers"
	"github.com/streamline-erp/ticket-service/internal/auth"
	"github.com/streamline-erp/ticket-service/internal/config"
	"github.com/streamline-erp/ticket-service/internal/events"
	"github.com/streamline-erp/ticket-service/internal/observability"
	"github.com/streamline-erp/ticket-service/internal/persistence"
	"github.com/streamline-erp/ticket-service/internal/repository"
	"github.com/streamline-erp/ticket-service/internal/service"
	"github.com/streamline-erp/ticket-service/internal/ticketid"
	"github.com/streamline-erp/ticket-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Env)
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

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	var (
		ticketRepo repository.TicketRepository
		userRepo   repository.UserRepository
		officeRepo repository.BackOfficeRepository
	)
	if pg.Enabled() {
		ticketRepo = repository.NewTicketRepository(pg.PoolHandle())
		userRepo = repository.NewUserRepository(pg.PoolHandle())
		officeRepo = repository.NewBackOfficeRepository(pg.PoolHandle())
	} else {
		ticketRepo = repository.NewMemoryTicketRepository()
		userRepo = repository.NewMemoryUserRepository()
		officeRepo = repository.NewMemoryBackOfficeRepository()
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)

	allocOpts := ticketid.Options{
		MaxAttempts: cfg.Tickets.IDMaxAttempts,
		Logger:      logger,
		Metrics:     metrics,
	}
	if redis.Enabled() {
		allocOpts.Reserver = ticketid.NewRedisReserver(redis.Client, cfg.Tickets.ReservationTTL())
	}
	allocator := ticketid.NewAllocator(ticketRepo, allocOpts)

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:      ticketRepo,
		UserRepo:        userRepo,
		IDs:             allocator,
		Dispatcher:      dispatcher,
		Metrics:         metrics,
		Logger:          logger,
		DefaultPageSize: cfg.Tickets.DefaultPageSize,
		MaxPageSize:     cfg.Tickets.MaxPageSize,
	})
	authService := service.NewAuthService(cfg.Auth, userRepo)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService, logger)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Dependency{
			"postgres": pg,
			"redis":    redis,
		}),
		Users:          handlers.NewUsersHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		BackOffice:     handlers.NewBackOfficeHandler(service.NewBackOfficeService(officeRepo, userRepo, logger)),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
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
