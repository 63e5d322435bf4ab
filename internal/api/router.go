package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Conceptual-Machines/notegen-api/internal/api/handlers"
	apimiddleware "github.com/Conceptual-Machines/notegen-api/internal/api/middleware"
	"github.com/Conceptual-Machines/notegen-api/internal/config"
	"github.com/Conceptual-Machines/notegen-api/internal/metrics"
	"github.com/Conceptual-Machines/notegen-api/internal/middleware"
	"github.com/Conceptual-Machines/notegen-api/internal/services"
	"github.com/Conceptual-Machines/notegen-api/internal/store"
)

func SetupRouter(db *gorm.DB, st *store.Store, cfg *config.Config, m *metrics.Client, version string) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking())

	// CORS middleware
	router.Use(apimiddleware.CORS())

	// Per-client rate limiting
	router.Use(apimiddleware.RateLimit())

	// Health check
	healthHandler := handlers.NewHealthHandler(db, version)
	router.GET("/health", healthHandler.HealthCheck)

	importExportService := services.NewImportExportService(st)

	// Auth routes (public)
	authHandler := handlers.NewAuthHandler(st.Users, cfg)
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	// Protected API routes v1 (require JWT)
	v1 := router.Group("/api/v1")
	v1.Use(middleware.JWTAuth(st.Users, cfg))
	{
		userHandler := handlers.NewUserHandler()
		v1.GET("/users/me", userHandler.GetProfile)

		progressionHandler := handlers.NewProgressionHandler(st.ChordProgressions)
		progressions := v1.Group("/chord-progressions")
		{
			progressions.POST("", progressionHandler.Create)
			progressions.GET("", progressionHandler.List)
			progressions.GET("/:id", progressionHandler.Get)
			progressions.PUT("/:id", progressionHandler.Update)
			progressions.DELETE("/:id", progressionHandler.Delete)
			progressions.GET("/by-name/:name", progressionHandler.GetByName)
		}

		notePatternHandler := handlers.NewNotePatternHandler(st.NotePatterns)
		notePatterns := v1.Group("/note-patterns")
		{
			notePatterns.POST("", notePatternHandler.Create)
			notePatterns.GET("", notePatternHandler.List)
			notePatterns.GET("/:id", notePatternHandler.Get)
			notePatterns.PUT("/:id", notePatternHandler.Update)
			notePatterns.DELETE("/:id", notePatternHandler.Delete)
			notePatterns.GET("/by-name/:name", notePatternHandler.GetByName)
		}

		rhythmPatternHandler := handlers.NewRhythmPatternHandler(st.RhythmPatterns)
		rhythmPatterns := v1.Group("/rhythm-patterns")
		{
			rhythmPatterns.POST("", rhythmPatternHandler.Create)
			rhythmPatterns.GET("", rhythmPatternHandler.List)
			rhythmPatterns.GET("/:id", rhythmPatternHandler.Get)
			rhythmPatterns.PUT("/:id", rhythmPatternHandler.Update)
			rhythmPatterns.DELETE("/:id", rhythmPatternHandler.Delete)
			rhythmPatterns.GET("/by-name/:name", rhythmPatternHandler.GetByName)
		}

		sequenceHandler := handlers.NewSequenceHandler(st, m)
		v1.GET("/sequences", sequenceHandler.List)
		v1.GET("/sequences/:id", sequenceHandler.Get)
		v1.POST("/sequences/generate", sequenceHandler.Generate)

		validateHandler := handlers.NewValidateHandler(m)
		validate := v1.Group("/validate")
		{
			validate.POST("/note-pattern", validateHandler.NotePattern)
			validate.POST("/rhythm-pattern", validateHandler.RhythmPattern)
			validate.POST("/chord-progression", validateHandler.ChordProgression)
			validate.POST("/note-sequence", validateHandler.NoteSequence)
			validate.POST("/config", validateHandler.Config)
		}

		importExportHandler := handlers.NewImportExportHandler(importExportService, m)
		v1.GET("/export/:collection", importExportHandler.Export)
		v1.POST("/import/:collection", importExportHandler.Import)
		v1.GET("/stats", importExportHandler.Stats)
		v1.GET("/patterns-list", importExportHandler.PatternsList)
	}

	// Admin API routes (admin only)
	admin := router.Group("/api/admin")
	admin.Use(middleware.JWTAuth(st.Users, cfg), middleware.AdminRequired())
	{
		adminHandler := handlers.NewAdminHandler(st)
		admin.GET("/users", adminHandler.ListUsers)
		admin.POST("/presets/seed", adminHandler.SeedPresets)
	}

	return router
}
