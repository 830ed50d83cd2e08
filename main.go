package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sunserve/sunserve-api/config"
	"github.com/sunserve/sunserve-api/models"
	"github.com/sunserve/sunserve-api/routes"
	"github.com/sunserve/sunserve-api/services"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting SunServe API server...")

	server, err := setupServer(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialise server", zap.Error(err))
	}

	go func() {
		logger.Info("Server is listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shut down", zap.Error(err))
	}
	logger.Info("Server stopped")
}

// setupServer connects storage, migrates the schema, initialises the
// services and returns an unstarted server
func setupServer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*http.Server, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := config.ConnectDatabase(cfg.DatabaseURL, logger); err != nil {
		return nil, err
	}
	if err := models.Migrate(config.GetDB()); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.Info("Database migration completed successfully")

	tokens := services.InitTokenService(cfg)

	blacklist, err := services.InitTokenBlacklist(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	if redisBlacklist, ok := blacklist.(*services.RedisTokenBlacklist); ok {
		if err := redisBlacklist.Ping(ctx); err != nil {
			return nil, fmt.Errorf("failed to reach Redis: %w", err)
		}
		logger.Info("Token revocation list backed by Redis")
	}

	if cfg.PhotoStorageEnabled() {
		store, err := services.NewS3ObjectStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		services.InitPhotoService(store)
		logger.Info("Site photo storage enabled", zap.String("bucket", cfg.AWSS3Bucket))
	} else {
		logger.Warn("AWS_S3_BUCKET is not set; site photo endpoints will return 503")
	}

	router := routes.SetupRouter(cfg, tokens, blacklist, logger)
	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}
