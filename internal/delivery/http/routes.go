package http

import (
	"github.com/gin-gonic/gin"
	"github.com/mdcatalog/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// Image relay, addressed by the proxied_url field of variant options
	router.GET("/image-proxy", handler.ImageProxy)

	// Storefront-facing catalog routes
	md := router.Group("/md")
	{
		md.GET("/search", handler.Search)
		md.GET("/sku-image-options", handler.SKUImageOptions)
		md.GET("/sku-image", handler.SKUImage)
	}

	return router
}
