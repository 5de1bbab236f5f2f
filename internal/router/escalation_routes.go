package router // declare the router package; wires URL paths to handler functions

import (
	"github.com/labstack/echo/v4" // echo framework for routing

	"github.com/agrimitra/farmer-assist/internal/handler"
	"github.com/agrimitra/farmer-assist/internal/middleware"
)

// RegisterEscalations wires the escalation workflow. Creating and
// listing are open to any authenticated user (listing is scoped by
// role inside the handler); advancing the status is officer-only.
func RegisterEscalations(e *echo.Echo, h *handler.EscalationHandler, auth echo.MiddlewareFunc) {
	g := e.Group("/v1/escalations", auth)
	g.POST("", h.Create)
	g.GET("", h.List)
	g.PATCH("/:id/status", h.UpdateStatus, middleware.RequireRole("officer"))
}

// RegisterOfficer wires the read-only officer dashboard views behind
// the officer role.
func RegisterOfficer(e *echo.Echo, h *handler.OfficerHandler, auth echo.MiddlewareFunc) {
	g := e.Group("/v1/officer", auth, middleware.RequireRole("officer"))
	g.GET("/queries", h.ListQueries)
	g.GET("/farmers", h.ListFarmers)
}
