package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisdriver "github.com/redis/go-redis/v9"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	redisadapter "github.com/adboard/adverts-service/internal/adapter/cache/redis"
	"github.com/adboard/adverts-service/internal/adapter/currency"
	httpserver "github.com/adboard/adverts-service/internal/adapter/http"
	"github.com/adboard/adverts-service/internal/adapter/http/handler"
	"github.com/adboard/adverts-service/internal/adapter/http/router"
	mongoadapter "github.com/adboard/adverts-service/internal/adapter/mongo"
	natsadapter "github.com/adboard/adverts-service/internal/adapter/nats"
	"github.com/adboard/adverts-service/internal/adapter/storage/s3"
	"github.com/adboard/adverts-service/internal/adapter/userdir"
	"github.com/adboard/adverts-service/internal/config"
	"github.com/adboard/adverts-service/internal/mailer"
	"github.com/adboard/adverts-service/internal/platform/logger"
	"github.com/adboard/adverts-service/internal/scheduler"
	"github.com/adboard/adverts-service/internal/usecase"
)

type App struct {
	cfg         *config.Config
	log         logger.Logger
	server      *httpserver.Server
	maintenance *scheduler.Maintenance
	publisher   *natsadapter.Publisher
	mongoClient *mongodriver.Client
	redisClient *redisdriver.Client
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	appLogger, err := logger.NewZapLogger(logger.ZapLoggerConfig{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		TimeFormat: cfg.Logger.TimeFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger.Infof("Configuration loaded: Env=%s, HTTP Port: %s", cfg.Env, cfg.HTTPServer.Port)

	appLogger.Info("Initializing MongoDB client...")
	mongoClient, err := mongoadapter.NewClient(ctx, cfg.MongoDB)
	if err != nil {
		appLogger.Errorf("Failed to initialize MongoDB client: %v", err)
		return nil, fmt.Errorf("failed to initialize MongoDB client: %w", err)
	}
	appLogger.Info("MongoDB client initialized successfully")

	appLogger.Info("Initializing Redis client...")
	redisClient, err := redisadapter.NewClient(ctx, cfg.Redis)
	if err != nil {
		appLogger.Errorf("Failed to initialize Redis client: %v", err)
		return nil, fmt.Errorf("failed to initialize Redis client: %w", err)
	}
	appLogger.Info("Redis client initialized successfully")

	appLogger.Info("Initializing MinIO storage...")
	photoStorage, err := s3.NewS3Storage(cfg.MinIO, appLogger)
	if err != nil {
		appLogger.Errorf("Failed to initialize MinIO storage: %v", err)
		return nil, fmt.Errorf("failed to initialize MinIO storage: %w", err)
	}
	appLogger.Info("MinIO storage initialized successfully")

	// Events are best-effort. A broker outage keeps the API up.
	var publisher *natsadapter.Publisher
	var events usecase.EventPublisher
	publisher, err = natsadapter.NewPublisher(cfg.NATS, appLogger)
	if err != nil {
		appLogger.Warnf("NATS unavailable, advert events disabled: %v", err)
		publisher = nil
	} else {
		events = publisher
		appLogger.Info("NATS publisher initialized successfully")
	}

	advertRepo := mongoadapter.NewAdvertMongoRepository(mongoClient, cfg.MongoDB.Database)
	archiveRepo := mongoadapter.NewArchiveMongoRepository(mongoClient, cfg.MongoDB.Database)
	favoriteRepo := mongoadapter.NewFavoriteMongoRepository(mongoClient, cfg.MongoDB.Database)
	searchRepo := mongoadapter.NewSearchTermMongoRepository(mongoClient, cfg.MongoDB.Database)
	cacheRepo := redisadapter.NewRedisCacheRepository(redisClient, appLogger)
	appLogger.Info("Repositories initialized")

	mailSender := mailer.NewSender(cfg.SMTP, appLogger)
	userDirectory := userdir.NewClient(cfg.UserDir)
	currencyClient := currency.NewClient(cfg.Currency, appLogger)

	advertUC := usecase.NewAdvertUseCase(advertRepo, cacheRepo, photoStorage, events, appLogger, cfg.AdvertCache.TTL)
	archiveUC := usecase.NewArchiveUseCase(advertRepo, archiveRepo, cacheRepo, events, mailSender, userDirectory, appLogger)
	favoritesUC := usecase.NewFavoritesUseCase(favoriteRepo, advertRepo, cacheRepo, appLogger)
	searchUC := usecase.NewSearchUseCase(searchRepo, advertRepo, appLogger)

	maintenance, err := scheduler.NewMaintenance(advertUC, cfg.Maintenance.RunAt, cfg.Maintenance.Retention, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize maintenance scheduler: %w", err)
	}

	mux := router.New(router.Handlers{
		Adverts:   handler.NewAdvertHandler(advertUC, appLogger, cfg.Env),
		Archive:   handler.NewArchiveHandler(archiveUC, appLogger, cfg.Env),
		Favorites: handler.NewFavoritesHandler(favoritesUC, appLogger, cfg.Env),
		Search:    handler.NewSearchHandler(searchUC, appLogger, cfg.Env),
		Misc:      handler.NewMiscHandler(currencyClient, appLogger, cfg.Env),
	}, cfg.Auth.JWTSecret, appLogger)

	server := httpserver.NewServer(cfg.HTTPServer, mux, appLogger)
	appLogger.Info("HTTP server instance created")

	return &App{
		cfg:         cfg,
		log:         appLogger,
		server:      server,
		maintenance: maintenance,
		publisher:   publisher,
		mongoClient: mongoClient,
		redisClient: redisClient,
	}, nil
}

func (a *App) Run() {
	a.log.Info("Starting application components...")

	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	go a.maintenance.Start(schedulerCtx)
	a.log.Info("Maintenance scheduler started in a goroutine")

	go func() {
		if err := a.server.Run(); err != nil {
			a.log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()
	a.log.Info("HTTP server started in a goroutine")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit
	a.log.Infof("Received shutdown signal: %v. Shutting down application...", receivedSignal)

	stopScheduler()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPServer.TimeoutGraceful+5*time.Second)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.log.Errorf("Error during HTTP server graceful shutdown: %v", err)
	} else {
		a.log.Info("HTTP server stopped successfully")
	}

	if a.publisher != nil {
		a.publisher.Close()
		a.log.Info("NATS publisher closed")
	}

	a.log.Info("Closing database connections...")
	if a.mongoClient != nil {
		if err := a.mongoClient.Disconnect(shutdownCtx); err != nil {
			a.log.Errorf("Error disconnecting from MongoDB: %v", err)
		} else {
			a.log.Info("MongoDB connection closed")
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Errorf("Error closing Redis client: %v", err)
		} else {
			a.log.Info("Redis connection closed")
		}
	}

	a.log.Info("Application shut down gracefully")
}
