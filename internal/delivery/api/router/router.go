// Package router contains routing setup for the HTTP delivery.
package router

import (
	"account/config"
	"account/internal/delivery/api/middleware"
	"account/internal/delivery/api/router/handler"
	"account/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AccountHandler *handler.AccountHandler
	AuthMiddleware *middleware.AuthMiddleware
	Metrics        *metrics.Recorder
	Config         *config.Config
}

// Router holds all the handlers that need to be registered.
type Router struct {
	accountHandler *handler.AccountHandler
	authMiddleware *middleware.AuthMiddleware
	metrics        *metrics.Recorder
	config         *config.Config
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *Router {
	return &Router{
		accountHandler: params.AccountHandler,
		authMiddleware: params.AuthMiddleware,
		metrics:        params.Metrics,
		config:         params.Config,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *Router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	if r.config.Metrics != nil && r.config.Metrics.Enabled {
		e.GET(r.config.Metrics.Path, echo.WrapHandler(r.metrics.Handler()))
	}

	apiGroup := e.Group("/api")
	{
		apiGroup.POST("/users", r.accountHandler.Register)
		apiGroup.POST("/login", r.accountHandler.Login)
		apiGroup.GET("/me", r.accountHandler.Me, r.authMiddleware.Authenticate)
	}
}
