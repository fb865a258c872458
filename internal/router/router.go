package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/pdf-chat/internal/config"
	"github.com/iliyamo/pdf-chat/internal/handler"
	"github.com/iliyamo/pdf-chat/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the account routes according to the configured
// auth mode.  The confirm endpoint only exists in verified mode and is
// wrapped in the rate limiter so the six-digit code cannot be brute
// forced.  The protected /v1/me endpoint demonstrates a valid token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, cfg config.Config, confirmLimiter echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	if cfg.AuthMode == config.ModeVerified {
		g.POST("/confirm", a.Confirm, confirmLimiter)
	}
	g.POST("/login", a.Login)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(cfg.JWTSecret))
	auth.GET("/me", a.Me)
}

// RegisterChat registers the document and question endpoints.  In the
// account-less mode the routes are open; otherwise they require a valid
// access token.
func RegisterChat(e *echo.Echo, h *handler.ChatHandler, cfg config.Config) {
	g := e.Group("/v1")
	if cfg.AuthMode != config.ModeNone {
		g.Use(middleware.JWTAuth(cfg.JWTSecret))
	}
	g.POST("/documents", h.Upload)
	g.POST("/index", h.Reindex)
	g.POST("/chat", h.Ask)
	g.GET("/history", h.History)
}
