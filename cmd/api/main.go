package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	httptransport "github.com/awaaz-labs/civic-portal/internal/api/http"
	"github.com/awaaz-labs/civic-portal/internal/api/http/handlers"
	"github.com/awaaz-labs/civic-portal/internal/auth"
	"github.com/awaaz-labs/civic-portal/internal/config"
	"github.com/awaaz-labs/civic-portal/internal/events"
	"github.com/awaaz-labs/civic-portal/internal/observability"
	"github.com/awaaz-labs/civic-portal/internal/persistence"
	"github.com/awaaz-labs/civic-portal/internal/queue"
	"github.com/awaaz-labs/civic-portal/internal/repository"
	"github.com/awaaz-labs/civic-portal/internal/service"
	"github.com/awaaz-labs/civic-portal/internal/storage"
	"github.com/awaaz-labs/civic-portal/internal/worker"
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

	db, err := persistence.NewMongo(ctx, cfg.Mongo, logger)
	if err != nil {
		logger.Fatal("failed to connect mongodb", zap.Error(err))
	}
	defer db.Close(ctx)

	if cfg.Mongo.EnsureIndexes {
		if err := persistence.EnsureIndexes(ctx, db.Database(), logger); err != nil {
			logger.Fatal("failed to ensure indexes", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	imageStore, err := storage.NewImageStore(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Fatal("failed to init image store", zap.Error(err))
	}

	var amqpChannel *amqp.Channel
	if cfg.Notification.AMQPURL != "" {
		conn, ch, err := queue.Connect(cfg.Notification.AMQPURL)
		if err != nil {
			logger.Warn("unable to reach rabbitmq; queue notifications disabled", zap.Error(err))
		} else {
			defer conn.Close()
			defer ch.Close()
			amqpChannel = ch
			logger.Info("connected to rabbitmq")
		}
	}

	userRepo := repository.NewUserRepository(db.Database())
	ticketRepo := repository.NewTicketRepository(db.Database())

	dispatcher := events.NewInMemoryDispatcher()
	limiter := auth.NewLoginLimiter(redis.Client, logger, cfg.Auth.LoginAttemptLimit, cfg.Auth.LoginAttemptWindow)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		Limiter:    limiter,
		Dispatcher: dispatcher,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		ImageStore: imageStore,
		Dispatcher: dispatcher,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification, amqpChannel)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewMiddleware(authService.TokenManager(), cfg.Auth.AdminEmail)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:     handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, db, redis),
		Auth:       handlers.NewAuthHandler(authService, cfg.App.Production()),
		Tickets:    handlers.NewTicketsHandler(ticketService),
		Admin:      handlers.NewAdminHandler(authService),
		Middleware: authMiddleware,
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
