package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/widyatma/duit-backend/internal/middleware"
)

// Handlers bundles everything RegisterRoutes needs.
type Handlers struct {
	Auth        *AuthHandler
	Category    *CategoryHandler
	Transaction *TransactionHandler
	Dashboard   *DashboardHandler
	WebSocket   *WebSocketHandler
}

// RegisterRoutes mounts the API under /api/v1. The register and login
// endpoints are public; everything else requires a bearer token.
func RegisterRoutes(e *echo.Echo, h Handlers, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter) {
	api := e.Group("/api/v1")

	auth := api.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)

	protected := api.Group("", authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))

	protected.GET("/auth/me", h.Auth.Me)

	protected.GET("/categories", h.Category.GetCategories)
	protected.POST("/categories", h.Category.CreateCategory)
	protected.GET("/categories/:id", h.Category.GetCategory)
	protected.PUT("/categories/:id", h.Category.UpdateCategory)
	protected.DELETE("/categories/:id", h.Category.DeleteCategory)

	protected.GET("/transactions", h.Transaction.GetTransactions)
	protected.POST("/transactions", h.Transaction.CreateTransaction)
	protected.GET("/transactions/:id", h.Transaction.GetTransaction)
	protected.PUT("/transactions/:id", h.Transaction.UpdateTransaction)
	protected.DELETE("/transactions/:id", h.Transaction.DeleteTransaction)

	protected.GET("/dashboard", h.Dashboard.GetStats)

	// WebSocket authenticates via query token inside the handler.
	api.GET("/ws", h.WebSocket.Connect)
}
