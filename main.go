package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/leasedesk/leasedesk/backend/config"
	"github.com/leasedesk/leasedesk/backend/handler"
	"github.com/leasedesk/leasedesk/backend/middleware"
	"github.com/leasedesk/leasedesk/backend/pkg/logger"
	"github.com/leasedesk/leasedesk/backend/service"
	"github.com/robfig/cron/v3"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("configuration loaded successfully")

	// Initialize services
	minioSvc, err := service.NewMinioService(&cfg.Minio)
	if err != nil {
		slog.Error("failed to initialize MINIO service", "error", err)
		os.Exit(1)
	}

	// Ensure bucket exists
	if err := minioSvc.EnsureBucket(context.Background()); err != nil {
		slog.Error("failed to ensure MINIO bucket", "error", err)
		os.Exit(1)
	}

	docparseSvc := service.NewDocparseService(&cfg.Docparse)
	suggestSvc := service.NewSuggestService(&cfg.Suggest)

	// Initialize LOI store with config
	service.InitLOIStore(&cfg.Store)

	// Apply the tenant-obligation phrase override, if any
	service.SetProhibitionPhrases(cfg.Review.ProhibitionPhrases)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(cfg)
	loiHandler := handler.NewLOIHandler(minioSvc, docparseSvc)
	clauseHandler := handler.NewClauseHandler(suggestSvc)
	callbackHandler := handler.NewCallbackHandler(docparseSvc)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New() // Use New() instead of Default() to avoid default middleware

	// Add custom middleware
	router.Use(middleware.RequestID())                 // Request ID for tracing
	router.Use(middleware.Recovery())                  // Panic recovery
	router.Use(middleware.RequestLogger())             // Access logging
	router.Use(corsMiddleware())                       // CORS
	router.Use(middleware.RateLimit(cfg.Server.RateLimitPerMinute, time.Minute))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// Public routes
	api := router.Group("/api")
	{
		api.POST("/auth/login", authHandler.Login)
		api.POST("/docparse/callback", callbackHandler.HandleCallback)
	}

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(&cfg.Auth))
	{
		protected.GET("/auth/me", authHandler.GetCurrentUser)
		protected.POST("/lois/upload", loiHandler.Upload)
		protected.GET("/lois", loiHandler.List)
		protected.GET("/lois/:id", loiHandler.Get)
		protected.GET("/lois/:id/status", loiHandler.GetStatus)
		protected.DELETE("/lois/:id", loiHandler.Delete)
		protected.GET("/lois/:id/clauses", clauseHandler.List)
		protected.POST("/lois/:id/clauses/:clauseID/comments", clauseHandler.AddComment)
		protected.PATCH("/lois/:id/clauses/:clauseID/status", clauseHandler.SetStatus)
		protected.POST("/lois/:id/clauses/:clauseID/suggest", clauseHandler.Suggest)
	}

	// Scheduled maintenance: fail extractions stuck past the timeout
	scheduler := cron.New()
	parseTimeout := time.Duration(cfg.Docparse.ParseTimeoutMinutes) * time.Minute
	if _, err := scheduler.AddFunc("@every 5m", func() {
		if expired := service.GetLOIStore().ExpireStaleParses(parseTimeout); expired > 0 {
			slog.Info("expired stale extractions", "count", expired)
		}
	}); err != nil {
		slog.Error("failed to schedule parse cleanup", "error", err)
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}

// corsMiddleware handles CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
