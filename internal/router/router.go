// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and maps paths to their
// corresponding handlers.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/users-api/internal/handler"
	"github.com/deppfellow/users-api/internal/middleware"
	"github.com/deppfellow/users-api/internal/server"
)

// NewRouter builds the echo instance.
//
// Middleware order matters: the request id must exist before the New Relic
// transaction is decorated, and the transaction must exist before the
// context enhancer copies its trace ids into the request logger.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Global.Secure(),
	)

	registerSystemRoutes(router, h)
	registerUserRoutes(router, h)

	return router
}

// registerUserRoutes sends every method on /users to the user router,
// which answers unsupported methods itself.
//
// Any only covers echo's known methods. The path's RouteNotFound handler
// takes the rest (FOO, PROPFIND, ...) in place of echo's 405.
func registerUserRoutes(r *echo.Echo, h *handler.Handlers) {
	users := handler.Echo(h.Users.Dispatch)

	r.Any("/users", users)
	r.RouteNotFound("/users", users)
}
