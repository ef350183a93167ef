package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEcho_CopiesRequestAndResponse(t *testing.T) {
	var got Request
	dispatch := func(_ context.Context, req Request) Response {
		got = req
		return Response{
			StatusCode: http.StatusTeapot,
			Headers:    corsHeaders(),
			Body:       `{"ok":true}`,
		}
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/users?userId=u1&userId=u2&x=1", strings.NewReader(`{"age":1}`))
	rec := httptest.NewRecorder()

	require.NoError(t, Echo(dispatch)(e.NewContext(req, rec)))

	assert.Equal(t, http.MethodPut, got.Method)
	assert.Equal(t, map[string]string{"userId": "u1", "x": "1"}, got.Query)
	require.NotNil(t, got.Body)
	assert.Equal(t, `{"age":1}`, *got.Body)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, `{"ok":true}`, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET,POST,PUT,DELETE,OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, echo.MIMEApplicationJSON, rec.Header().Get(echo.HeaderContentType))
}

func TestEcho_EmptyBodyIsNil(t *testing.T) {
	var got Request
	dispatch := func(_ context.Context, req Request) Response {
		got = req
		return jsonResponse(http.StatusOK, messageBody{Message: "ok"})
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, Echo(dispatch)(e.NewContext(req, rec)))
	assert.Nil(t, got.Body)
	assert.Empty(t, got.Query)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestEcho_BodyReadFailureIsDeferred(t *testing.T) {
	var got Request
	dispatch := func(_ context.Context, req Request) Response {
		got = req
		return jsonResponse(http.StatusOK, messageBody{Message: "ok"})
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/users?userId=u1", failingReader{})
	rec := httptest.NewRecorder()

	require.NoError(t, Echo(dispatch)(e.NewContext(req, rec)))
	assert.Nil(t, got.Body)
	assert.EqualError(t, got.BodyErr, "connection reset")
	assert.Equal(t, http.StatusOK, rec.Code)
}
