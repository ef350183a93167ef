package model

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// number builds a NumberText from a Go integer.
func number(v int) NumberText {
	return NumberText{Value: strconv.Itoa(v), Valid: true}
}

func TestUserPayload_Unmarshal(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    UserPayload
		wantErr bool
	}{
		{
			name: "numeric age",
			body: `{"userId":"u1","name":"Ann","email":"a@x.io","age":30}`,
			want: UserPayload{UserID: "u1", Name: "Ann", Email: "a@x.io", Age: number(30)},
		},
		{
			name: "fractional and exponent ages keep their text",
			body: `{"age":1.5e3}`,
			want: UserPayload{Age: NumberText{Value: "1.5e3", Valid: true}},
		},
		{
			name: "string age keeps its content",
			body: `{"age":"42"}`,
			want: UserPayload{Age: NumberText{Value: "42", Valid: true}},
		},
		{
			name: "boolean age keeps its literal",
			body: `{"age":true}`,
			want: UserPayload{Age: NumberText{Value: "true", Valid: true}},
		},
		{
			name: "null age is unset",
			body: `{"age":null}`,
			want: UserPayload{},
		},
		{
			name: "missing fields stay empty",
			body: `{}`,
			want: UserPayload{},
		},
		{
			name:    "array age is rejected",
			body:    `{"age":[1]}`,
			wantErr: true,
		},
		{
			name:    "object age is rejected",
			body:    `{"age":{"n":1}}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got UserPayload
			err := json.Unmarshal([]byte(tt.body), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNumberText_String(t *testing.T) {
	assert.Equal(t, "7", number(7).String())
	assert.Equal(t, "", NumberText{}.String())
}
