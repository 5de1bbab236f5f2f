package router // declare the router package; wires URL paths to handler functions

import (
	"github.com/labstack/echo/v4" // echo framework for routing

	"github.com/agrimitra/farmer-assist/internal/handler"
	"github.com/agrimitra/farmer-assist/internal/middleware"
)

// RegisterQuery wires the agronomy Q&A endpoints. Every route requires
// an authenticated farmer or officer. The submission route additionally
// passes through the per-user rate limiter because it spends AI
// provider credit on every call.
func RegisterQuery(e *echo.Echo, h *handler.QueryHandler, auth echo.MiddlewareFunc, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/query", auth, middleware.RequireRole("farmer", "officer"))
	g.POST("", h.Submit, limiter)
	g.GET("/history", h.History)
	g.POST("/feedback", h.Feedback)
	g.GET("/stats", h.Stats)
	g.DELETE("/:id", h.Delete)
}
