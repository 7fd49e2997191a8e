package http

import (
	"github.com/gin-gonic/gin"

	"github.com/comparely/backend/config"
	"github.com/comparely/backend/internal/metrics"
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
	router.Use(metrics.Middleware())

	// Operational endpoints
	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Uploaded images are served straight off the public disk
	router.Static(cfg.Storage.PublicPath, cfg.Storage.BaseDir)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", handler.Register)
			auth.POST("/login", handler.Login)
		}

		authed := v1.Group("", RequireAuth(handler.auth))
		{
			authed.GET("/auth/me", handler.Me)
			authed.POST("/auth/logout", handler.Logout)

			products := authed.Group("/products")
			{
				products.GET("", handler.ListProducts)
				products.POST("", handler.CreateProduct)
				products.POST("/compare", handler.CompareProducts)
				products.POST("/bulk-update", handler.BulkUpdatePrices)
				products.POST("/import", handler.ImportProduct)
				products.GET("/:id", handler.GetProduct)
				products.PUT("/:id", handler.UpdateProduct)
				products.DELETE("/:id", handler.DeleteProduct)
			}

			authed.POST("/upload", handler.UploadImage)
		}
	}

	return router
}
