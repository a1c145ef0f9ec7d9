// routes.go
package main

import (
	"github.com/labstack/echo/v4"

	"taskchat/internal/auth"
	"taskchat/internal/config"
	"taskchat/internal/httpapi"
)

// registerRoutes wires the chat endpoint and the liveness check, the only
// two HTTP surfaces this service exposes (spec.md §6). The teacher's
// registerRoutes split public routes from a JWT-protected group; this
// service has exactly one protected route, so the split collapses to a
// single echo.Group carrying the JWT middleware.
func registerRoutes(e *echo.Echo, cfg *config.Config, chat *httpapi.Handler, health *httpapi.HealthHandler) {
	e.GET("/healthz", health.Health)

	protected := e.Group("")
	protected.Use(auth.Middleware(cfg.Auth.SecretKey))
	protected.POST("/chat/:user_id", chat.Chat)
}
