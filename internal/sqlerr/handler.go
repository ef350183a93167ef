package sqlerr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrCode reports the Code of err, or Other when err is not an *Error.
func ErrCode(err error) Code {
	var pgerr *Error
	if errors.As(err, &pgerr) {
		return pgerr.Code
	}
	return Other
}

// ConvertPgError converts a raw Postgres error into an *Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// formatUserFriendlyMessage produces the message exposed to clients.
func formatUserFriendlyMessage(sqlErr *Error, fallbackTable string) string {
	table := sqlErr.TableName
	if table == "" {
		table = fallbackTable
	}
	entityName := getEntityName(table, sqlErr.ColumnName)

	switch sqlErr.Code {
	case NotNullViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName == "" {
			fieldName = "field"
		}
		return fmt.Sprintf("The %s is required", fieldName)

	case CheckViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", fieldName)
		}
		return "One or more values do not meet required conditions"

	case InvalidTextRepresentation, NumericValueOutOfRange:
		// Postgres does not name the column for cast failures; keep its
		// message, it quotes the offending value.
		return fmt.Sprintf("Invalid %s value: %s", strings.ToLower(entityName), sqlErr.Message)

	case UndefinedTable:
		return fmt.Sprintf("The %s table does not exist; run the migrations", strings.ToLower(entityName))

	default:
		return sqlErr.Message
	}
}

// getEntityName infers an entity name from table/column data.
//
//  1. A column ending in "_id" wins: "user_id" -> "User".
//  2. Otherwise the table name, singularized when it ends with "s".
//  3. Otherwise "record".
func getEntityName(tableName, columnName string) string {
	if columnName != "" && strings.HasSuffix(strings.ToLower(columnName), "_id") {
		entity := strings.TrimSuffix(strings.ToLower(columnName), "_id")
		return humanizeText(entity)
	}

	if tableName != "" {
		entity := tableName
		if strings.HasSuffix(entity, "s") && len(entity) > 1 {
			entity = entity[:len(entity)-1]
		}
		return humanizeText(entity)
	}

	return "record"
}

// humanizeText converts snake_case into Title Case: "first_name" -> "First Name".
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// HandleError normalizes a database error for the given table.
//
// Postgres server errors become an *Error whose message is readable; any
// other error is wrapped with the operation name. nil stays nil.
func HandleError(err error, table, operation string) error {
	if err == nil {
		return nil
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		sqlErr := ConvertPgError(pgerr)
		sqlErr.Message = formatUserFriendlyMessage(sqlErr, table)
		return sqlErr
	}

	return fmt.Errorf("%s: %w", operation, err)
}
