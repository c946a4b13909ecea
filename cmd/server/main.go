package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Adapters
	"github.com/Rakesh4440/fixify-plus/internal/adapter/ai"
	natsAdapter "github.com/Rakesh4440/fixify-plus/internal/adapter/messaging/nats"
	"github.com/Rakesh4440/fixify-plus/internal/adapter/repository/cache"
	mongoRepo "github.com/Rakesh4440/fixify-plus/internal/adapter/repository/mongodb"
	"github.com/Rakesh4440/fixify-plus/internal/adapter/storage/s3"

	// Config
	"github.com/Rakesh4440/fixify-plus/internal/config"

	// HTTP layer
	"github.com/Rakesh4440/fixify-plus/internal/handler"
	"github.com/Rakesh4440/fixify-plus/internal/router"

	// Domain services
	"github.com/Rakesh4440/fixify-plus/internal/mailer"
	"github.com/Rakesh4440/fixify-plus/internal/usecase"

	// Platform
	"github.com/Rakesh4440/fixify-plus/internal/platform/logger"
	"github.com/Rakesh4440/fixify-plus/internal/platform/metrics"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func main() {
	// Load .env file (optional, for local development)
	if err := godotenv.Load(); err != nil {
		fmt.Printf("INFO: .env file not found or error loading: %v. Relying on OS environment variables.\n", err)
	}

	// 1. Initialize Logger
	appLogger := logger.NewLogger()
	appLogger.Info("Application starting...")

	// 2. Load Configuration
	cfg, err := config.LoadConfig(appLogger)
	if err != nil {
		appLogger.Fatal("Failed to load configuration", zap.Error(err))
	}
	appLogger.Info("Configuration loaded successfully",
		zap.String("service_name", cfg.ServiceName),
		zap.String("http_port", cfg.HTTPPort),
		zap.Bool("mongo_uri_set", cfg.MongoURI != ""),
		zap.String("nats_url", cfg.NATSURL),
		zap.String("prometheus_port", cfg.PrometheusMetricsPort),
	)

	// 3. Connect to MongoDB
	mongoClient, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		appLogger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		appLogger.Info("Disconnecting from MongoDB...")
		if err = mongoClient.Disconnect(context.Background()); err != nil {
			appLogger.Error("Error disconnecting from MongoDB", zap.Error(err))
		}
	}()
	ctxPingMongo, cancelPingMongo := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPingMongo()
	if err = mongoClient.Ping(ctxPingMongo, nil); err != nil {
		appLogger.Fatal("Failed to ping MongoDB", zap.Error(err))
	}
	appLogger.Info("Successfully connected and pinged MongoDB.")
	db := mongoClient.Database(cfg.MongoDatabase)

	// 4. Initialize NATS Publisher
	natsPublisher, err := natsAdapter.NewPublisher(cfg.NATSURL)
	if err != nil {
		appLogger.Fatal("Failed to initialize NATS publisher", zap.Error(err))
	}
	defer natsPublisher.Close()
	appLogger.Info("NATS Publisher initialized.")

	// 5. Initialize Redis listing cache
	listingCache, err := cache.NewListingCache(cfg.RedisAddress)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis listing cache", zap.Error(err))
	}
	appLogger.Info("Redis listing cache initialized.")

	// 6. Initialize MinIO photo storage
	photoStorage, err := s3.NewPhotoStorage(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOBucket, cfg.MinIOUseSSL, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize MinIO photo storage", zap.Error(err))
	}
	appLogger.Info("MinIO photo storage initialized.")

	// 7. Initialize Repositories
	listingRepo, err := mongoRepo.NewListingRepository(db, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize ListingRepository", zap.Error(err))
	}
	userRepo, err := mongoRepo.NewUserRepository(db, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize UserRepository", zap.Error(err))
	}
	appLogger.Info("Repositories initialized.")

	// 8. Initialize collaborators and Usecases
	smtpMailer := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPEmail, cfg.SMTPPassword)
	generator := ai.NewGenerator(cfg.GeminiAPIKey, cfg.GeminiModel, appLogger)
	tokenTTL := time.Duration(cfg.TokenTTLHours) * time.Hour

	listingUsecase := usecase.NewListingUsecase(listingRepo, userRepo, listingCache, photoStorage, natsPublisher, smtpMailer, appLogger)
	reviewUsecase := usecase.NewReviewUsecase(listingRepo, listingCache, natsPublisher, appLogger)
	userUsecase := usecase.NewUserUsecase(userRepo, cfg.JWTSecret, tokenTTL, appLogger)
	appLogger.Info("Usecases initialized.")

	// 9. Initialize metrics and HTTP handlers
	metricsManager := metrics.NewManager(cfg.ServiceName)
	handlers := router.Handlers{
		Auth:    handler.NewAuthHandler(userUsecase, metricsManager, appLogger),
		Listing: handler.NewListingHandler(listingUsecase, metricsManager, appLogger),
		Review:  handler.NewReviewHandler(reviewUsecase, metricsManager, appLogger),
		AI:      handler.NewAIHandler(generator, listingUsecase, metricsManager, appLogger),
		Health:  handler.NewHealthHandler(cfg.ServiceName, mongoClient),
	}
	mux := router.New(handlers, cfg.JWTSecret, cfg.CORSOrigin, metricsManager, appLogger)

	// 10. Start HTTP server
	httpServer := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("port", cfg.HTTPPort))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server ListenAndServe error", zap.Error(err))
		}
	}()

	// 11. Start Prometheus Metrics Server
	if cfg.PrometheusMetricsPort != "" {
		go func() {
			if err := metrics.StartMetricsServer(cfg.PrometheusMetricsPort, appLogger, metricsManager.Registry); err != nil && !errors.Is(err, http.ErrServerClosed) {
				appLogger.Error("Prometheus metrics server failed", zap.Error(err))
			}
		}()
	} else {
		appLogger.Info("Prometheus metrics server not started (PROMETHEUS_METRICS_PORT not set).")
	}

	// 12. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	appLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		appLogger.Info("HTTP server stopped.")
	}

	if err := listingCache.Close(); err != nil {
		appLogger.Error("Error closing Redis client", zap.Error(err))
	}

	appLogger.Info("Application shutting down...")
}
