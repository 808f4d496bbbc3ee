// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/opentrails/data-relay/internal/handler"
	"github.com/opentrails/data-relay/internal/middleware"
	"github.com/opentrails/data-relay/internal/session"
)

// RegisterRoutes registers routes that do not belong to the versioned API.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAPI wires the full relay API under /trails/api/1. The limiter
// wraps everything; the response cache wraps only the public, globally
// shared read endpoints. Endpoints that act on the caller's account sit
// behind the login-token middleware.
func RegisterAPI(
	e *echo.Echo,
	accounts *handler.AccountHandler,
	activities *handler.ActivityHandler,
	stats *handler.StatsHandler,
	tickets *handler.TicketHandler,
	sessions *session.Store,
	cache echo.MiddlewareFunc,
	limit echo.MiddlewareFunc,
) {
	api := e.Group("/trails/api/1", limit)

	// Unauthenticated operations.
	api.POST("/Account/Create", accounts.Create)
	api.POST("/Login", accounts.Login)

	// Globally shared read endpoints, cached when Redis is up.
	api.GET("/Statistics/All", stats.AllTotals, cache)
	api.GET("/Path/All", activities.ListAllPaths, cache)
	api.GET("/Ticket", tickets.List, cache)

	// Demographic and time-bucket histograms.
	api.GET("/Statistics/Ages", stats.Ages)
	api.GET("/Statistics/TimeOfDay", stats.TimeOfDay)
	api.GET("/Statistics/Months", stats.Months)

	// Tickets are writable by anyone; the later API surface dropped the
	// login requirement on reporting.
	api.POST("/Ticket", tickets.Create)
	api.POST("/Ticket/Close", tickets.Close)
	api.POST("/Ticket/Notes", tickets.Notes)
	api.POST("/Ticket/Priority", tickets.Priority)

	// Everything below needs a valid login token.
	auth := api.Group("", middleware.RequireLogin(sessions))
	auth.POST("/Account/Edit", accounts.Edit)
	auth.GET("/Account", accounts.Info)
	auth.POST("/Activity", activities.Create)
	auth.GET("/Activity", activities.ListForUser)
	auth.GET("/Statistics", stats.UserTotals)
}
