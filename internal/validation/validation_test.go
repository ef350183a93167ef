package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lookupRequest struct {
	UserID string `validate:"required"`
	Limit  int    `validate:"omitempty,min=1,max=10"`
}

func (r *lookupRequest) Validate() error {
	return Struct(r)
}

type customRequest struct{}

func (r *customRequest) Validate() error {
	return CustomValidationErrors{{Field: "age", Message: "must be a number"}}
}

func TestCheck(t *testing.T) {
	msg, fieldErrors := Check(&lookupRequest{UserID: "u1"})
	assert.Empty(t, msg)
	assert.Nil(t, fieldErrors)

	msg, fieldErrors = Check(&lookupRequest{})
	assert.Equal(t, "Validation failed", msg)
	require.Len(t, fieldErrors, 1)
	assert.Equal(t, "userid", fieldErrors[0].Field)
	assert.Equal(t, "is required", fieldErrors[0].Error)

	_, fieldErrors = Check(&lookupRequest{UserID: "u1", Limit: 11})
	require.Len(t, fieldErrors, 1)
	assert.Equal(t, "limit", fieldErrors[0].Field)
	assert.Equal(t, "must not exceed 10", fieldErrors[0].Error)
}

func TestCheck_CustomErrors(t *testing.T) {
	msg, fieldErrors := Check(&customRequest{})
	assert.Equal(t, "Validation failed", msg)
	require.Len(t, fieldErrors, 1)
	assert.Equal(t, "age", fieldErrors[0].Field)
	assert.Equal(t, "must be a number", fieldErrors[0].Error)
}

func TestDecodeJSONBody(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	var p payload
	require.NoError(t, DecodeJSONBody(nil, &p))
	assert.Empty(t, p.Name)

	empty := ""
	require.NoError(t, DecodeJSONBody(&empty, &p))

	body := `{"name":"Ann"}`
	require.NoError(t, DecodeJSONBody(&body, &p))
	assert.Equal(t, "Ann", p.Name)

	bad := `{"name":`
	err := DecodeJSONBody(&bad, &p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON body")
}
