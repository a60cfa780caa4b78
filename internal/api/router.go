package api

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/page-comments-api/internal/config"
	"github.com/page-comments-api/internal/service"
	"github.com/rs/zerolog"
)

// StoreHealth reports the comment store's connection health and pool state
type StoreHealth interface {
	HealthCheck(ctx context.Context) error
	Stats() sql.DBStats
}

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, db StoreHealth, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(log))
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type"},
	}))

	// Handlers
	commentHandler := NewCommentHandler(services, log)
	adminHandler := NewAdminHandler(services, cfg, log)

	// Health check
	router.GET("/health", healthCheck(db, log))
	router.GET("/metrics", metricsHandler(services, db))

	// Comment API
	comments := router.Group("/api/comments")
	{
		comments.GET("", commentHandler.ListByPage)
		comments.POST("", commentHandler.Create)
		comments.GET("/all", commentHandler.ListAll)
		comments.DELETE("/:id", commentHandler.Delete)
	}

	// Admin and presentation pages
	router.GET("/setup", adminHandler.SetupPage)
	router.POST("/setup", adminHandler.UpdateSecret)
	router.GET("/admin", adminHandler.AdminPage)
	router.GET("/comment-widget", adminHandler.WidgetPage)

	// Generic fallback for unmatched routes
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return router
}

// healthCheck pings the comment store and reports the health status
func healthCheck(db StoreHealth, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.HealthCheck(c.Request.Context()); err != nil {
			log.Error().Err(err).Msg("Health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"timestamp": time.Now().Format(time.RFC3339),
				"service":   "page-comments-api",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   "page-comments-api",
		})
	}
}

// metricsHandler returns comment store metrics
func metricsHandler(services *service.Services, db StoreHealth) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		commentsCount, _ := services.Comment.Count(ctx)
		stats := db.Stats()

		c.JSON(http.StatusOK, gin.H{
			"database": gin.H{
				"comments":         commentsCount,
				"open_connections": stats.OpenConnections,
				"in_use":           stats.InUse,
			},
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// recoveryMiddleware handles panics. Clients only ever see a generic
// message; the detail goes to the operator log.
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// requestIDMiddleware tags each request with an id for log correlation
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Str("request_id", c.GetString("request_id")).
			Msg("Request completed")
	}
}
