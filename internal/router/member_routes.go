package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bookclub-cafe/internal/middleware"
)

// RegisterMember mounts the endpoints where a visitor acts as themselves.
// A bearer token is optional; without one the handlers fall back to the
// userId in the body.
func RegisterMember(e *echo.Echo, h Handlers, g Guards) {
	api := e.Group("/api")
	mw := []echo.MiddlewareFunc{middleware.OptionalJWT(g.Issuer), g.RateLimit}

	api.POST("/events/:id/register", h.Registrations.Register, mw...)
	api.DELETE("/registrations/:id", h.Registrations.Cancel, mw...)
	api.POST("/clubs/:id/members", h.Clubs.Join, mw...)
	api.DELETE("/clubs/:id/members", h.Clubs.Leave, mw...)
}
