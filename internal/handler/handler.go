// Package handler is the first layer. The first entry point
// for business logic after the transport.
//
// It turns a transport-neutral Request into a call on the
// user service and wraps the outcome in a uniform Response:
// a status code, the CORS headers and a JSON body. The
// Lambda and echo adapters both feed this same path.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/deppfellow/users-api/internal/errs"
)

// Request is the transport-neutral description of an inbound call.
// A nil Body means the request carried none.
//
// BodyErr is set when the transport could not read or decode the body. It
// only surfaces from operations that use the body, so preflight, read,
// delete and unsupported methods are answered as usual.
type Request struct {
	Method  string
	Query   map[string]string
	Body    *string
	BodyErr error
}

// payload returns the body, or the transport's failure to produce it.
func (r Request) payload() (*string, error) {
	if r.BodyErr != nil {
		return nil, r.BodyErr
	}
	return r.Body, nil
}

// Response is what every request produces, success or failure.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       string
}

// corsHeaders go out on every response, errors included.
func corsHeaders() map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Headers": "Content-Type",
		"Access-Control-Allow-Methods": "GET,POST,PUT,DELETE,OPTIONS",
		"Content-Type":                 "application/json",
	}
}

type messageBody struct {
	Message string `json:"message"`
}

type errorBody struct {
	Error string `json:"error"`
}

// jsonResponse encodes body. An encoding failure becomes a 500 carrying the
// encoder's message.
func jsonResponse(status int, body any) Response {
	data, err := json.Marshal(body)
	if err != nil {
		status = http.StatusInternalServerError
		data, _ = json.Marshal(errorBody{Error: err.Error()})
	}

	return Response{
		StatusCode: status,
		Headers:    corsHeaders(),
		Body:       string(data),
	}
}

// errorResponse maps client-input errors to their own status and everything
// else to a 500. The body is always {"error": message}.
func errorResponse(err error) Response {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return jsonResponse(httpErr.Status, errorBody{Error: httpErr.Message})
	}
	return jsonResponse(http.StatusInternalServerError, errorBody{Error: err.Error()})
}
