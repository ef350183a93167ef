package handler

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/deppfellow/users-api/internal/server"
)

// LambdaHandler serves API Gateway proxy events.
type LambdaHandler struct {
	Handler
	dispatch DispatchFunc
}

func NewLambdaHandler(s *server.Server, dispatch DispatchFunc) *LambdaHandler {
	return &LambdaHandler{
		Handler:  NewHandler(s),
		dispatch: dispatch,
	}
}

// Handle converts the event, dispatches it and converts the result back.
// It never returns an error; failures are reported in the response.
//
// When New Relic is enabled each invocation runs inside its own transaction.
func (h *LambdaHandler) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if h.server != nil {
		if app := h.server.LoggerService.GetApplication(); app != nil {
			txn := app.StartTransaction(event.HTTPMethod + " " + event.Resource)
			defer txn.End()
			txn.AddAttribute("request.id", event.RequestContext.RequestID)
			ctx = newrelic.NewContext(ctx, txn)
		}
	}

	logger := h.logger(ctx).With().
		Str("request_id", event.RequestContext.RequestID).
		Str("path", event.Path).
		Logger()
	ctx = logger.WithContext(ctx)

	req := lambdaRequest(event)
	if req.BodyErr != nil {
		logger.Warn().Err(req.BodyErr).Msg("failed to decode event body")
	}

	return lambdaResponse(h.dispatch(ctx, req)), nil
}

// lambdaRequest converts the event. A body that fails to decode is recorded
// in BodyErr and reported only by operations that read it.
func lambdaRequest(event events.APIGatewayProxyRequest) Request {
	req := Request{
		Method: event.HTTPMethod,
		Query:  event.QueryStringParameters,
	}

	if event.Body == "" {
		return req
	}

	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			req.BodyErr = fmt.Errorf("invalid base64 body: %w", err)
			return req
		}
		body = string(decoded)
	}
	req.Body = &body

	return req
}

func lambdaResponse(resp Response) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       resp.Body,
	}
}
