package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/madhavprabhu/hostelhub/internal/handler" // import the handlers that implement business logic
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterShared registers the routes open to both roles: the session
// probe used by the client on page load, and the websocket upgrade.  Both
// resolve the session themselves (admin cookie first) instead of sitting
// behind a single-role guard.
func RegisterShared(e *echo.Echo, a *handler.AuthHandler, ws *handler.WSHandler) {
	// The SPA calls this on every load to decide which dashboard to render.
	e.GET("/api/check-auth", a.CheckAuth)
	// The websocket endpoint; identity is taken from the cookie at upgrade.
	e.GET("/api/ws", ws.Connect)
}
