package router // declare the router package; wires URL paths to handler functions

import (
	"github.com/labstack/echo/v4" // echo framework for routing

	"github.com/agrimitra/farmer-assist/internal/handler"
)

// RegisterRoutes wires the unauthenticated surface: the health check
// used by load balancers and the static file route that serves stored
// query images back to clients.
func RegisterRoutes(e *echo.Echo, uploadDir string) {
	e.GET("/healthz", handler.Health)
	e.Static("/uploads", uploadDir)
}

// RegisterAuth wires the phone-OTP authentication endpoints. Signup,
// OTP issue/verify and login are public; the profile endpoints require
// a valid token.
func RegisterAuth(e *echo.Echo, h *handler.AuthHandler, auth echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	g.POST("/signup", h.Signup)
	g.POST("/otp/send", h.SendOTP)
	g.POST("/otp/verify", h.VerifyOTP)
	g.POST("/login", h.Login)

	me := g.Group("/profile", auth)
	me.GET("", h.Profile)
	me.PUT("", h.UpdateProfile)
}
