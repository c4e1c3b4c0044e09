// Package router mounts the handlers on an echo instance.  Each Register
// function owns one audience: public reads, accounts, members acting on
// events and clubs, and cafe owners creating content.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bookclub-cafe/internal/auth"
	"github.com/iliyamo/bookclub-cafe/internal/handler"
)

// Handlers groups every handler the API serves.
type Handlers struct {
	Events        *handler.EventHandler
	Registrations *handler.RegistrationHandler
	Cafes         *handler.CafeHandler
	Clubs         *handler.ClubHandler
	Profiles      *handler.ProfileHandler
	Auth          *handler.AuthHandler
}

// Guards are the middlewares routes opt into.  Nil entries pass through.
type Guards struct {
	Issuer    *auth.Issuer
	Cache     echo.MiddlewareFunc
	RateLimit echo.MiddlewareFunc
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

func (g Guards) withDefaults() Guards {
	if g.Cache == nil {
		g.Cache = passThrough
	}
	if g.RateLimit == nil {
		g.RateLimit = passThrough
	}
	return g
}

// RegisterRoutes mounts the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAll mounts every API route.
func RegisterAll(e *echo.Echo, h Handlers, g Guards) {
	g = g.withDefaults()
	RegisterRoutes(e)
	RegisterPublic(e, h, g)
	RegisterAuth(e, h.Auth, g)
	RegisterMember(e, h, g)
	RegisterOwner(e, h, g)
}

// RegisterPublic mounts the read endpoints, cached except for upcoming.
// They accept anonymous callers and answer the same for everyone.
func RegisterPublic(e *echo.Echo, h Handlers, g Guards) {
	api := e.Group("/api")
	c := g.Cache

	api.GET("/events", h.Events.List, c)
	// Upcoming depends on the clock, so it is never cached.
	api.GET("/events/upcoming", h.Events.Upcoming)
	api.GET("/events/search", h.Events.Search, c)
	api.GET("/events/:id", h.Events.Get, c)
	api.GET("/events/:id/registrations", h.Events.Registrations, c)

	api.GET("/cafes", h.Cafes.List, c)
	api.GET("/cafes/:id", h.Cafes.Get, c)

	api.GET("/clubs", h.Clubs.List, c)
	api.GET("/clubs/:id", h.Clubs.Get, c)
	api.GET("/clubs/:id/events", h.Clubs.Events, c)
	api.GET("/clubs/:id/members", h.Clubs.Members, c)

	api.GET("/users/:id/profile", h.Profiles.Get, c)
}

// RegisterAuth mounts signup and login behind the rate limiter.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, g Guards) {
	grp := e.Group("/api/auth")
	grp.POST("/register", a.Register, g.RateLimit)
	grp.POST("/login", a.Login, g.RateLimit)
}
