package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	emailadapter "github.com/amJayem/used-books-resale-server/internal/adapter/email"
	mongoadapter "github.com/amJayem/used-books-resale-server/internal/adapter/mongo"
	natsadapter "github.com/amJayem/used-books-resale-server/internal/adapter/nats"
	redisadapter "github.com/amJayem/used-books-resale-server/internal/adapter/redis"
	minioadapter "github.com/amJayem/used-books-resale-server/internal/adapter/storage/minio"
	"github.com/amJayem/used-books-resale-server/internal/app/config"
	"github.com/amJayem/used-books-resale-server/internal/domain/entity"
	"github.com/amJayem/used-books-resale-server/internal/platform/logger"
	"github.com/amJayem/used-books-resale-server/internal/platform/tracer"
	httpserver "github.com/amJayem/used-books-resale-server/internal/port/http"
	"github.com/amJayem/used-books-resale-server/internal/port/http/handler"
	"github.com/amJayem/used-books-resale-server/internal/service"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const serviceName = "used-books-resale-server"

type App struct {
	cfg            *config.Config
	log            logger.Logger
	server         *httpserver.Server
	mongoClient    *mongo.Client
	redisClient    *redis.Client
	natsConn       *nats.Conn
	tracerProvider *sdktrace.TracerProvider
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	logCfg := logger.ZapLoggerConfig{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		TimeFormat: cfg.Logger.TimeFormat,
	}
	appLogger, err := logger.NewZapLogger(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger.Info("Logger initialized")
	appLogger.Infof("Configuration loaded: Env=%s, HTTP Port: %s", cfg.Env, cfg.HTTPServer.Port)

	var tracerProvider *sdktrace.TracerProvider
	if cfg.Tracing.Enabled {
		tracerProvider, err = tracer.Init(ctx, cfg.Tracing.Endpoint, serviceName)
		if err != nil {
			appLogger.Errorf("Failed to initialize tracer: %v", err)
			return nil, fmt.Errorf("failed to initialize tracer: %w", err)
		}
		appLogger.Info("Tracer initialized")
	}

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

	appLogger.Info("Connecting to NATS...")
	natsConn, err := natsadapter.NewConnection(cfg.NATS)
	if err != nil {
		appLogger.Errorf("Failed to connect to NATS: %v", err)
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	msgPublisher, err := natsadapter.NewNATSPublisher(natsConn)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
	}
	appLogger.Info("NATS publisher initialized")

	// Email and photo storage are optional. A missing SMTP host or an
	// unreachable MinIO endpoint leaves the feature off instead of
	// blocking startup.
	var emailSender emailadapter.Sender
	if cfg.SMTP.Host != "" {
		emailSender, err = emailadapter.NewSMTPSender(cfg.SMTP, appLogger)
		if err != nil {
			appLogger.Warnf("Failed to initialize SMTP sender, receipts disabled: %v", err)
			emailSender = nil
		} else {
			appLogger.Info("SMTP sender initialized")
		}
	} else {
		appLogger.Info("SMTP host not configured, receipts disabled")
	}

	var photoStorage service.PhotoStorage
	minioStorage, err := minioadapter.NewPhotoStorage(ctx, cfg.MinIO, appLogger)
	if err != nil {
		appLogger.Warnf("Failed to initialize photo storage, uploads disabled: %v", err)
	} else {
		photoStorage = minioStorage
		appLogger.Info("Photo storage initialized")
	}

	userRepo := mongoadapter.NewUserRepository(mongoClient, cfg.MongoDB, appLogger)
	listingRepo := mongoadapter.NewListingRepository(mongoClient, cfg.MongoDB)
	orderRepo := mongoadapter.NewOrderRepository(mongoClient, cfg.MongoDB)
	categoryRepo := mongoadapter.NewCategoryRepository(mongoClient, cfg.MongoDB)
	appLogger.Info("Repositories initialized")

	if err := categoryRepo.Seed(ctx, defaultCategories()); err != nil {
		appLogger.Warnf("Failed to seed categories: %v", err)
	}

	listingCache := redisadapter.NewListingCache(redisClient)

	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.TTL, appLogger)
	userService := service.NewUserService(userRepo, appLogger)
	listingService := service.NewListingService(listingRepo, listingCache, photoStorage, msgPublisher, appLogger)
	orderService := service.NewOrderService(orderRepo, listingRepo, msgPublisher, emailSender, appLogger)
	categoryService := service.NewCategoryService(categoryRepo)
	appLogger.Info("Services initialized")

	srv := httpserver.NewServer(appLogger, cfg.HTTPServer, authService, httpserver.Handlers{
		User:     handler.NewUserHandler(userService, authService, appLogger),
		Listing:  handler.NewListingHandler(listingService, appLogger),
		Order:    handler.NewOrderHandler(orderService, appLogger),
		Category: handler.NewCategoryHandler(categoryService),
	})
	appLogger.Info("HTTP server instance created")

	application := &App{
		cfg:            cfg,
		log:            appLogger,
		server:         srv,
		mongoClient:    mongoClient,
		redisClient:    redisClient,
		natsConn:       natsConn,
		tracerProvider: tracerProvider,
	}

	return application, nil
}

func (a *App) Run() {
	a.log.Info("Starting application components...")

	go func() {
		if err := a.server.Start(); err != nil {
			a.log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()
	a.log.Info("HTTP server started in a goroutine")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit
	a.log.Infof("Received shutdown signal: %v. Shutting down application...", receivedSignal)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPServer.TimeoutGraceful+5*time.Second)
	defer cancel()

	if err := a.server.Stop(shutdownCtx); err != nil {
		a.log.Errorf("Error during HTTP server graceful shutdown: %v", err)
	}

	a.log.Info("Closing connections...")

	if a.natsConn != nil {
		a.natsConn.Close()
		a.log.Info("NATS connection closed")
	}

	if a.mongoClient != nil {
		if err := a.mongoClient.Disconnect(shutdownCtx); err != nil {
			a.log.Errorf("Error disconnecting from MongoDB: %v", err)
		} else {
			a.log.Info("MongoDB connection closed successfully")
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Errorf("Error closing Redis client: %v", err)
		} else {
			a.log.Info("Redis client closed successfully")
		}
	}

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(shutdownCtx); err != nil {
			a.log.Errorf("Error shutting down tracer provider: %v", err)
		}
	}

	a.log.Info("Application shut down successfully")
}

func defaultCategories() []*entity.Category {
	return []*entity.Category{
		{Name: "Fiction"},
		{Name: "Non-fiction"},
		{Name: "Academic"},
		{Name: "Children"},
		{Name: "Comics"},
	}
}
