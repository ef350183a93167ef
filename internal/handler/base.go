package handler

import (
	"context"
	"io"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"

	"github.com/deppfellow/users-api/internal/middleware"
	"github.com/deppfellow/users-api/internal/server"
)

// Handler is the base handler type that holds shared application dependencies.
//
// It is embedded by concrete handlers so they can reach config, logger and
// the New Relic application through *server.Server.
type Handler struct {
	server *server.Server
}

// NewHandler constructs a base Handler.
func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// logger prefers the request-scoped logger stored in ctx by the context
// enhancer middleware and falls back to the application logger.
func (h Handler) logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	if h.server != nil && h.server.Logger != nil {
		return h.server.Logger
	}
	nop := zerolog.Nop()
	return &nop
}

// DispatchFunc is the transport-neutral entry point shared by every adapter.
type DispatchFunc func(ctx context.Context, req Request) Response

// Echo adapts a DispatchFunc to an echo route.
//
// It reads the query string (first value per key) and the raw body, runs
// dispatch and copies the Response onto the echo response as is. Errors are
// already folded into the Response, so the only error returned is a failure
// to write the reply.
func Echo(dispatch DispatchFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		logger := middleware.GetLogger(c)

		req := echoRequest(c)
		if req.BodyErr != nil {
			logger.Warn().Err(req.BodyErr).Msg("failed to read request body")
		}

		if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
			txn.AddAttribute("handler.name", c.Path())
		}

		resp := dispatch(c.Request().Context(), req)

		header := c.Response().Header()
		for k, v := range resp.Headers {
			header.Set(k, v)
		}

		logger.Debug().
			Int("status", resp.StatusCode).
			Dur("total_duration", time.Since(start)).
			Msg("response written")

		return c.Blob(resp.StatusCode, echo.MIMEApplicationJSON, []byte(resp.Body))
	}
}

func echoRequest(c echo.Context) Request {
	query := map[string]string{}
	for key := range c.QueryParams() {
		query[key] = c.QueryParam(key)
	}

	req := Request{
		Method: c.Request().Method,
		Query:  query,
	}

	if c.Request().Body == nil {
		return req
	}

	data, err := io.ReadAll(c.Request().Body)
	if err != nil {
		req.BodyErr = err
		return req
	}
	if len(data) > 0 {
		body := string(data)
		req.Body = &body
	}
	return req
}
