// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/mooviebooker/backend/internal/handler"
	"github.com/mooviebooker/backend/internal/middleware"
)

// RegisterRoutes registers routes that need neither authentication nor
// any other middleware.  Currently this is only the health check used by
// load balancers and monitoring.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints.  Unauthenticated
// operations live under /v1/auth; mws (typically the rate limiter) wraps
// that group so credential guessing is throttled.  The protected /v1/me
// endpoint is registered here too because it belongs to the auth handler.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, mws ...echo.MiddlewareFunc) {
	g := e.Group("/v1/auth", mws...)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Issues a new access token without rotating the refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout takes a refresh_token in the body and does not require a JWT.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterMovies registers the public catalog proxy endpoints.  Guests can
// browse movies without an account.  mws usually carries the optional
// Redis response cache; reservation routes never go through it.
func RegisterMovies(e *echo.Echo, m *handler.MoviesHandler, mws ...echo.MiddlewareFunc) {
	g := e.Group("/v1/movies", mws...)
	g.GET("", m.List)
	g.GET("/:id", m.GetOne)
}

// RegisterReservations registers the reservation endpoints under /v1.
// Every route requires a valid access token; ownership checks happen in
// the booking service.
func RegisterReservations(e *echo.Echo, r *handler.ReservationHandler, jwtSecret string) {
	g := e.Group("/v1/reservation", middleware.JWTAuth(jwtSecret))
	g.GET("", r.List)
	g.GET("/:id", r.GetOne)
	g.POST("", r.Create)
	g.DELETE("/:id", r.DeleteOne)
}
