package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bookclub-cafe/internal/middleware"
	"github.com/iliyamo/bookclub-cafe/internal/model"
)

// RegisterOwner mounts the creation endpoints.  They require a valid token
// with the cafe_owner or admin role; the handlers then check ownership of
// the cafe or club involved.
func RegisterOwner(e *echo.Echo, h Handlers, g Guards) {
	api := e.Group("/api")
	mw := []echo.MiddlewareFunc{
		middleware.JWTAuth(g.Issuer),
		middleware.RequireRole(model.RoleCafeOwner, model.RoleAdmin),
	}

	api.POST("/cafes", h.Cafes.Create, mw...)
	api.POST("/clubs", h.Clubs.Create, mw...)
	api.POST("/events", h.Events.Create, mw...)
}
