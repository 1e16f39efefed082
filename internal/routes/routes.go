package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nelliei/albumsearcher-db/internal/config"
	"github.com/nelliei/albumsearcher-db/internal/handlers"
	"github.com/nelliei/albumsearcher-db/internal/metrics"
	"github.com/nelliei/albumsearcher-db/internal/middleware"
	"github.com/nelliei/albumsearcher-db/internal/repository"
	"github.com/nelliei/albumsearcher-db/internal/views"
)

func SetupRoutes(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	m *metrics.Metrics,
	sessions *middleware.Sessions,
	userRepo repository.UserRepository,
	authHandler *handlers.AuthHandler,
	albumHandler *handlers.AlbumHandler,
) (*gin.Engine, error) {
	router := gin.New()

	// =========================
	// GLOBAL MIDDLEWARE
	// =========================
	router.Use(middleware.RequestID())
	router.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(logger, true))
	router.Use(cors.New(corsConfig(cfg, logger)))
	router.Use(securityHeaders())

	if err := views.Register(router); err != nil {
		return nil, err
	}

	// =========================
	// PUBLIC PAGES
	// =========================
	router.GET("/health", health(db))
	router.GET("/metrics", gin.WrapH(m.Handler()))

	pages := router.Group("/")
	pages.Use(middleware.LoadUser(sessions, userRepo, logger))
	{
		pages.GET("/connect-page", authHandler.ConnectPage)
		pages.POST("/connect", authHandler.Connect)
		pages.GET("/register-page", authHandler.RegisterPage)
		pages.POST("/register", authHandler.Register)

		// ---------- LOGGED IN ----------
		protected := pages.Group("/")
		protected.Use(middleware.RequireUser())
		{
			protected.GET("/", albumHandler.Index)
			protected.GET("/update", authHandler.UpdatePage)
			protected.POST("/update", authHandler.Update)
			protected.GET("/albums", albumHandler.SearchAlbums)
			protected.GET("/albums/:album_id", albumHandler.GetAlbum)
			protected.POST("/like", albumHandler.Like)
			protected.POST("/unlike", albumHandler.Unlike)
			protected.GET("/favorites", albumHandler.Favorites)
		}
	}

	return router, nil
}

func corsConfig(cfg *config.Config, logger *zap.Logger) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if cfg.IsProduction() {
		corsCfg.AllowOrigins = []string{cfg.CORSOrigin}
		logger.Info("CORS configured for production", zap.String("origin", cfg.CORSOrigin))
		return corsCfg
	}

	allowedOrigins := []string{
		"http://localhost:" + cfg.ServerPort,
		"http://127.0.0.1:" + cfg.ServerPort,
	}
	if cfg.CORSOrigin != "" {
		allowedOrigins = append(allowedOrigins, cfg.CORSOrigin)
	}

	corsCfg.AllowOriginFunc = func(origin string) bool {
		for _, allowed := range allowedOrigins {
			if origin == allowed {
				return true
			}
		}
		// Local network IPs
		return strings.HasPrefix(origin, "http://192.168.") || strings.HasPrefix(origin, "http://10.")
	}
	logger.Info("CORS configured for development", zap.Int("allowed_origins", len(allowedOrigins)))
	return corsCfg
}

func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		// Album art is served by the catalog's CDN.
		c.Header("Content-Security-Policy", "default-src 'self'; img-src 'self' https:")
		c.Next()
	}
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "error",
				"message": "Database unreachable",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "success",
			"message": "Server is running",
		})
	}
}
