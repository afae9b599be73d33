package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/news-cms-api/internal/config"
	"github.com/news-cms-api/internal/service"
	"github.com/rs/zerolog"
)

// Version is reported by the root endpoint
const Version = "1.0.0"

// HealthChecker reports whether a backing store is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// NewRouter creates and configures the Gin router. db may be nil, in which
// case /health reports only the process itself.
func NewRouter(services *service.Services, db HealthChecker, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	// Uploads above this size spill to temporary files
	router.MaxMultipartMemory = cfg.Upload.MaxImageSize + 1<<20

	// Middleware
	router.Use(requestIDMiddleware())
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware(cfg.Server.CORSOrigin))

	// Handlers
	newsHandler := NewNewsHandler(services, log)
	adminHandler := NewAdminHandler(services, cfg, log)
	contactHandler := NewContactHandler(services, log)
	requireAdmin := authMiddleware(services.Auth, log)

	router.GET("/", rootHandler)
	router.GET("/health", healthCheck(db))
	router.GET("/metrics", metricsHandler(services))

	// Public news endpoints
	news := router.Group("/news")
	{
		news.GET("", newsHandler.List)
		news.GET("/:id", newsHandler.Get)
		news.GET("/by-slug/:slug", newsHandler.GetBySlug)
		news.GET("/image/:id", newsHandler.Image)
	}

	// Admin endpoints
	admin := router.Group("/admin")
	{
		admin.POST("/login", adminHandler.Login)

		adminNews := admin.Group("/news", requireAdmin)
		{
			adminNews.GET("", adminHandler.ListNews)
			adminNews.POST("", adminHandler.CreateNews)
			adminNews.POST("/backfill-slugs", adminHandler.BackfillSlugs)
			adminNews.PUT("/:id", adminHandler.UpdateNews)
			adminNews.DELETE("/:id", adminHandler.DeleteNews)
		}
	}

	// Contact form: submission is public, reading is admin only
	contact := router.Group("/contact")
	{
		contact.POST("", contactHandler.Submit)
		contact.GET("", requireAdmin, contactHandler.List)
		contact.GET("/:id", requireAdmin, contactHandler.Get)
		contact.DELETE("/:id", requireAdmin, contactHandler.Delete)
	}

	return router
}

// rootHandler identifies the service
func rootHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "News CMS API",
		"version": Version,
	})
}

// healthCheck returns the health status
func healthCheck(db HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   "news-cms-api",
		}

		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := db.HealthCheck(ctx); err != nil {
				response["status"] = "unhealthy"
				response["database"] = "unreachable"
				c.JSON(http.StatusServiceUnavailable, response)
				return
			}
			response["database"] = "ok"
		}

		c.JSON(http.StatusOK, response)
	}
}

// metricsHandler returns content counts
func metricsHandler(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		articlesCount, _ := services.Article.Count(ctx)
		contactsCount, _ := services.Contact.Count(ctx)
		unreadCount, _ := services.Contact.CountUnread(ctx)

		c.JSON(http.StatusOK, gin.H{
			"database": gin.H{
				"articles":        articlesCount,
				"contacts":        contactsCount,
				"unread_contacts": unreadCount,
			},
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}
