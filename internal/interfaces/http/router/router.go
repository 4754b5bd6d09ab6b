// Package router wires the HTTP middleware chain and route groups.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// Config holds router dependencies and tuning
type Config struct {
	Logger         *zap.Logger
	JWTService     *auth.JWTService
	Blacklist      auth.TokenBlacklist
	CORS           middleware.CORSConfig
	BodyLimitBytes int64
	RateLimit      *middleware.RateLimiter
	TracingEnabled bool
	ServiceName    string
}

// Handlers bundles every route handler of the API
type Handlers struct {
	System   *handler.SystemHandler
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Product  *handler.ProductHandler
	Category *handler.CategoryHandler
	Order    *handler.OrderHandler
}

// New builds the gin engine with the full middleware chain and all routes.
// Catalog reads are public; catalog writes and order administration require
// the admin role; everything else requires an authenticated caller.
func New(cfg Config, h Handlers) *gin.Engine {
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(cfg.Logger))
	engine.Use(logger.GinMiddleware(cfg.Logger))
	engine.Use(middleware.CORSWithConfig(cfg.CORS))

	if cfg.BodyLimitBytes > 0 {
		engine.Use(middleware.BodyLimit(cfg.BodyLimitBytes))
	}
	if cfg.RateLimit != nil {
		engine.Use(middleware.RateLimit(cfg.RateLimit))
	}
	if cfg.TracingEnabled {
		engine.Use(middleware.Tracing(middleware.TracingConfig{
			ServiceName: cfg.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanErrorMarker())
	}

	requireAuth := middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
		JWTService: cfg.JWTService,
		Blacklist:  cfg.Blacklist,
		Logger:     cfg.Logger,
	})
	requireAdmin := middleware.RequireAdmin()

	engine.GET("/health", h.System.Health)
	engine.GET("/ready", h.System.Ready)

	api := engine.Group("/api/v1")

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/login", h.Auth.Login)
		authRoutes.POST("/refresh", h.Auth.Refresh)
		authRoutes.POST("/logout", h.Auth.Logout)
	}

	users := api.Group("/users")
	{
		users.POST("", h.User.Register)
		users.GET("/me", requireAuth, h.User.Me)
		users.GET("", requireAuth, requireAdmin, h.User.List)
		users.GET("/:id", requireAuth, h.User.GetByID)
		users.POST("/:id/roles", requireAuth, requireAdmin, h.User.AssignRole)
		users.DELETE("/:id", requireAuth, requireAdmin, h.User.Delete)
	}

	products := api.Group("/products")
	{
		products.GET("", h.Product.List)
		products.GET("/:id", h.Product.GetByID)
		products.POST("", requireAuth, requireAdmin, h.Product.Create)
		products.PUT("/:id", requireAuth, requireAdmin, h.Product.Update)
		products.DELETE("/:id", requireAuth, requireAdmin, h.Product.Delete)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", h.Category.List)
		categories.GET("/:id", h.Category.GetByID)
		categories.POST("", requireAuth, requireAdmin, h.Category.Create)
		categories.PUT("/:id", requireAuth, requireAdmin, h.Category.Update)
		categories.DELETE("/:id", requireAuth, requireAdmin, h.Category.Delete)
	}

	orders := api.Group("/orders", requireAuth)
	{
		orders.GET("", requireAdmin, h.Order.List)
		orders.GET("/mine", h.Order.ListMine)
		orders.GET("/:id", h.Order.GetByID)
		orders.POST("", h.Order.Place)
		orders.PUT("/:id", requireAdmin, h.Order.Update)
		orders.PUT("/:id/status", requireAdmin, h.Order.UpdateStatus)
		orders.POST("/:id/pay", h.Order.Pay)
		orders.DELETE("/:id", requireAdmin, h.Order.Delete)
	}

	return engine
}
