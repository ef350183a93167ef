package sqlerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError_Nil(t *testing.T) {
	assert.NoError(t, HandleError(nil, "users", "put item"))
}

func TestHandleError_NonDriverError(t *testing.T) {
	cause := errors.New("connection reset")
	err := HandleError(cause, "users", "scan")

	require.Error(t, err)
	assert.Equal(t, "scan: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, Other, ErrCode(err))
}

func TestHandleError_PgErrors(t *testing.T) {
	tests := []struct {
		name     string
		pgErr    *pgconn.PgError
		wantCode Code
		wantMsg  string
	}{
		{
			name:     "invalid numeric text",
			pgErr:    &pgconn.PgError{Code: "22P02", Severity: "ERROR", Message: `invalid input syntax for type numeric: "abc"`},
			wantCode: InvalidTextRepresentation,
			wantMsg:  `Invalid user value: invalid input syntax for type numeric: "abc"`,
		},
		{
			name:     "empty key check",
			pgErr:    &pgconn.PgError{Code: "23514", Severity: "ERROR", TableName: "users", Message: "violates check"},
			wantCode: CheckViolation,
			wantMsg:  "One or more values do not meet required conditions",
		},
		{
			name:     "unmapped state keeps the driver message",
			pgErr:    &pgconn.PgError{Code: "40001", Severity: "ERROR", Message: "could not serialize access"},
			wantCode: Other,
			wantMsg:  "could not serialize access",
		},
		{
			name:     "not null names the column",
			pgErr:    &pgconn.PgError{Code: "23502", ColumnName: "user_id"},
			wantCode: NotNullViolation,
			wantMsg:  "The User Id is required",
		},
		{
			name:     "missing table",
			pgErr:    &pgconn.PgError{Code: "42P01", Message: `relation "users" does not exist`},
			wantCode: UndefinedTable,
			wantMsg:  "The user table does not exist; run the migrations",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := HandleError(fmt.Errorf("wrapped: %w", tt.pgErr), "users", "put item")

			var sqlErr *Error
			require.ErrorAs(t, err, &sqlErr)
			assert.Equal(t, tt.wantCode, sqlErr.Code)
			assert.Equal(t, tt.wantMsg, sqlErr.Error())
			assert.Equal(t, tt.wantCode, ErrCode(err))

			var pgErr *pgconn.PgError
			assert.ErrorAs(t, err, &pgErr)
		})
	}
}

func TestMapSeverity(t *testing.T) {
	assert.Equal(t, SeverityFatal, MapSeverity("FATAL"))
	assert.Equal(t, SeverityError, MapSeverity("bogus"))
}
