package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sunkissed-backend/internal/shared/middleware"
	"sunkissed-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = c.Config.Worker.UploadMaxBytes

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(c.Config.App.AllowedOrigins),
		middleware.ClientIPMiddleware(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupCatalogRoutes(v1, c)
		setupShopRoutes(v1, c)
		setupOrderRoutes(v1, c)
		setupBuilderRoutes(v1, c)
		setupDesignRoutes(v1, c)
		setupCommunityRoutes(v1, c)
		setupSettingsRoutes(v1, c)
		setupAdminRoutes(v1, c)
	}

	return router
}

// ========================================
// CATALOG ROUTES
// ========================================
func setupCatalogRoutes(v1 *gin.RouterGroup, c *container.Container) {
	v1.GET("/jewelry-types", c.CatalogHandler.ListTypes)

	items := v1.Group("/jewelry-items")
	{
		items.GET("", c.CatalogHandler.ListItems)
		items.GET("/:id", c.CatalogHandler.GetItem)
	}

	charms := v1.Group("/charms")
	{
		charms.GET("", c.CatalogHandler.ListCharms)
		charms.GET("/:id", c.CatalogHandler.GetCharm)
	}
}

// ========================================
// SHOP ROUTES
// ========================================
func setupShopRoutes(v1 *gin.RouterGroup, c *container.Container) {
	v1.GET("/categories", c.ProductHandler.ListCategories)
	v1.GET("/categories/:slug", c.ProductHandler.GetCategory)
	v1.GET("/products", c.ProductHandler.ListProducts)
	v1.GET("/products/:slug", c.ProductHandler.GetProduct)
	v1.GET("/search", c.ProductHandler.Search)
}

// ========================================
// ORDER ROUTES
// ========================================
// Read-only; a customer sees orders placed under their id or email.
func setupOrderRoutes(v1 *gin.RouterGroup, c *container.Container) {
	orders := v1.Group("/orders")
	orders.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		orders.GET("", c.OrderHandler.ListMyOrders)
		orders.GET("/:id", c.OrderHandler.GetMyOrder)
	}
}

// ========================================
// BUILDER ROUTES
// ========================================
// Sessions belong to the logged-in user when there is one and to the
// anonymous session cookie otherwise.
func setupBuilderRoutes(v1 *gin.RouterGroup, c *container.Container) {
	builder := v1.Group("/builder")
	builder.GET("/catalog", c.CatalogHandler.GetBuilderCatalog)

	sessions := builder.Group("/sessions")
	sessions.Use(
		middleware.OptionalAuthMiddleware(c.JWTManager),
		middleware.SessionMiddleware(middleware.DefaultSessionMiddlewareConfig(!c.Config.IsDevelopment())),
	)
	{
		sessions.POST("", c.BuilderHandler.CreateSession)
		sessions.GET("/:id", c.BuilderHandler.GetSession)
		sessions.PUT("/:id/base", c.BuilderHandler.SelectBase)
		sessions.PUT("/:id/slot-count", c.BuilderHandler.SetSlotCount)
		sessions.PUT("/:id/placements/:slotId", c.BuilderHandler.PlaceCharm)
		sessions.DELETE("/:id/placements/:slotId", c.BuilderHandler.RemoveCharm)
		sessions.POST("/:id/finalize", c.BuilderHandler.Finalize)
		sessions.POST("/:id/back", c.BuilderHandler.Back)
		sessions.POST("/:id/share", c.BuilderHandler.Share)
	}
}

// ========================================
// CUSTOM DESIGN ROUTES
// ========================================
func setupDesignRoutes(v1 *gin.RouterGroup, c *container.Container) {
	designs := v1.Group("/custom-designs")
	designs.Use(middleware.OptionalAuthMiddleware(c.JWTManager))
	{
		designs.POST("", c.DesignHandler.CreateDesign)
		designs.GET("", c.DesignHandler.ListDesigns)
		designs.GET("/trending", c.DesignHandler.Trending)
		designs.GET("/:code", c.DesignHandler.GetDesign)
	}

	owned := v1.Group("/custom-designs")
	owned.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		owned.POST("/:code/like", c.DesignHandler.ToggleLike)
		owned.DELETE("/:code", c.DesignHandler.DeleteDesign)
	}
}

// ========================================
// COMMUNITY ROUTES
// ========================================
func setupCommunityRoutes(v1 *gin.RouterGroup, c *container.Container) {
	community := v1.Group("/community")
	community.Use(
		middleware.AuthMiddleware(c.JWTManager),
		c.CommunityHandler.RequireProfile(),
	)
	{
		community.GET("/profile", c.CommunityHandler.GetProfile)
		community.PUT("/profile", c.CommunityHandler.UpdateProfile)
		community.GET("/chats", c.CommunityHandler.ListChats)
		community.POST("/chats", c.CommunityHandler.CreateChat)
		community.GET("/chats/:id/messages", c.CommunityHandler.ListMessages)
		community.POST("/chats/:id/messages", c.CommunityHandler.SendMessage)
		community.GET("/search", c.CommunityHandler.Search)
	}
}

// ========================================
// SETTINGS ROUTES
// ========================================
func setupSettingsRoutes(v1 *gin.RouterGroup, c *container.Container) {
	v1.GET("/settings", c.SettingsHandler.GetSettings)
}

// ========================================
// ADMIN ROUTES
// ========================================
func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container) {
	v1.POST("/admin/login", c.AdminHandler.Login)

	admin := v1.Group("/admin")
	admin.Use(
		middleware.AuthMiddleware(c.JWTManager),
		middleware.AdminMiddleware(),
	)
	{
		admin.GET("/me", c.AdminHandler.Me)

		// Catalog
		admin.POST("/jewelry-types", c.CatalogHandler.CreateType)
		admin.PUT("/jewelry-types/:id", c.CatalogHandler.UpdateType)
		admin.DELETE("/jewelry-types/:id", c.CatalogHandler.DeleteType)
		admin.POST("/jewelry-items", c.CatalogHandler.CreateItem)
		admin.PUT("/jewelry-items/:id", c.CatalogHandler.UpdateItem)
		admin.DELETE("/jewelry-items/:id", c.CatalogHandler.DeleteItem)
		admin.POST("/charms", c.CatalogHandler.CreateCharm)
		admin.PUT("/charms/:id", c.CatalogHandler.UpdateCharm)
		admin.DELETE("/charms/:id", c.CatalogHandler.DeleteCharm)

		// Shop
		admin.POST("/categories", c.ProductHandler.CreateCategory)
		admin.PUT("/categories/:id", c.ProductHandler.UpdateCategory)
		admin.DELETE("/categories/:id", c.ProductHandler.DeleteCategory)
		admin.GET("/products/:id", c.ProductHandler.AdminGetProduct)
		admin.POST("/products", c.ProductHandler.CreateProduct)
		admin.PUT("/products/:id", c.ProductHandler.UpdateProduct)
		admin.DELETE("/products/:id", c.ProductHandler.DeleteProduct)

		// Orders
		admin.GET("/dashboard", c.OrderHandler.Dashboard)
		admin.GET("/orders", c.OrderHandler.AdminListOrders)
		admin.GET("/orders/:id", c.OrderHandler.AdminGetOrder)

		// Designs
		admin.GET("/custom-designs", c.DesignHandler.AdminListDesigns)
		admin.GET("/custom-designs/export", c.DesignHandler.AdminExportDesigns)
		admin.POST("/custom-designs/:code/purchase", c.DesignHandler.AdminRecordPurchase)
		admin.DELETE("/custom-designs/:code", c.DesignHandler.AdminDeleteDesign)

		// Community moderation
		admin.GET("/chats", c.CommunityHandler.AdminListChats)

		// Store
		admin.PUT("/settings", c.SettingsHandler.UpdateSettings)

		// Uploads
		admin.POST("/uploads", c.UploadHandler.Upload)
		admin.GET("/uploads/:id", c.UploadHandler.GetUpload)
		admin.DELETE("/uploads/:id", c.UploadHandler.DeleteUpload)
	}
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
			"services":  gin.H{},
		}

		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			} else if stats, err := appCtx.DB.Stats(); err == nil {
				health["pool"] = stats
			}
		}

		// Cache failures degrade to misses, so they never fail the health check.
		cacheStatus := "ok"
		if appCtx.Cache == nil {
			cacheStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Cache.Ping(ctx); err != nil {
				cacheStatus = fmt.Sprintf("error: %v", err)
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"cache":    cacheStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
