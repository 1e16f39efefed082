// main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/nelliei/albumsearcher-db/internal/config"
	"github.com/nelliei/albumsearcher-db/internal/database"
	"github.com/nelliei/albumsearcher-db/internal/handlers"
	"github.com/nelliei/albumsearcher-db/internal/logger"
	"github.com/nelliei/albumsearcher-db/internal/metrics"
	"github.com/nelliei/albumsearcher-db/internal/middleware"
	"github.com/nelliei/albumsearcher-db/internal/repository"
	"github.com/nelliei/albumsearcher-db/internal/routes"
	"github.com/nelliei/albumsearcher-db/internal/services"
)

func main() {

	// =========================
	// LOAD CONFIG
	// =========================
	if err := config.LoadConfig(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	cfg := config.GlobalConfig

	zapLogger, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zapLogger.Sync()

	// =========================
	// CONNECT DATABASE
	// =========================
	if err := database.ConnectDB(cfg.DatabaseURL, cfg.IsProduction(), zapLogger); err != nil {
		zapLogger.Fatal("Database connection failed", zap.Error(err))
	}
	if err := database.AutoMigrate(database.DB); err != nil {
		zapLogger.Fatal("Database migration failed", zap.Error(err))
	}

	// =========================
	// INIT REPOSITORIES
	// =========================
	userRepo := repository.NewUserRepository(database.DB)
	albumRepo := repository.NewAlbumRepository(database.DB)
	likeRepo := repository.NewLikeRepository(database.DB)

	// =========================
	// INIT SERVICES
	// =========================
	m := metrics.New()

	catalog := services.NewAudioDBService(services.AudioDBConfig{
		BaseURL:   cfg.CatalogBaseURL,
		APIKey:    cfg.CatalogAPIKey,
		Timeout:   cfg.CatalogTimeout,
		RateLimit: cfg.CatalogRateLimit,
	}, m, zapLogger)

	likeService := services.NewLikeService(database.DB, albumRepo, likeRepo, catalog, m, zapLogger)
	sessions := middleware.NewSessions(cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())

	// =========================
	// INIT HANDLERS
	// =========================
	authHandler := handlers.NewAuthHandler(userRepo, sessions, m, zapLogger)
	albumHandler := handlers.NewAlbumHandler(albumRepo, likeRepo, likeService, catalog, zapLogger)

	// =========================
	// ROUTES
	// =========================
	router, err := routes.SetupRoutes(cfg, zapLogger, database.DB, m, sessions, userRepo, authHandler, albumHandler)
	if err != nil {
		zapLogger.Fatal("Failed to set up routes", zap.Error(err))
	}

	bindAddr := "0.0.0.0:" + cfg.ServerPort

	// =========================
	// SERVER CONFIG
	// =========================
	server := &http.Server{
		Addr:         bindAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// =========================
	// START SERVER
	// =========================
	go func() {
		zapLogger.Info("Server started",
			zap.String("addr", bindAddr),
			zap.String("env", cfg.Env),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Server error", zap.Error(err))
		}
	}()

	// =========================
	// GRACEFUL SHUTDOWN
	// =========================
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		zapLogger.Error("Forced shutdown", zap.Error(err))
	}

	if sqlDB, err := database.DB.DB(); err == nil {
		sqlDB.Close()
	}
	zapLogger.Info("Server exited properly")
}
