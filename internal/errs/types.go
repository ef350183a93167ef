package errs

import (
	"net/http"
)

const (
	CodeUnsupportedMethod = "UNSUPPORTED_METHOD"
	CodeUserIDRequired    = "USER_ID_REQUIRED"
)

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
// code is optional; nil defaults to "BAD_REQUEST".
func NewBadRequestError(message string, code *string, errors []FieldError) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusBadRequest))
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:    formattedCode,
		Message: message,
		Status:  http.StatusBadRequest,
		Errors:  errors,
	}
}

// NewNotFoundError creates a 404 Not Found HTTPError.
func NewNotFoundError(message string, code *string) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusNotFound))
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:    formattedCode,
		Message: message,
		Status:  http.StatusNotFound,
	}
}

// NewInternalServerError creates a 500 with the generic status text.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError)),
		Message: http.StatusText(http.StatusInternalServerError),
		Status:  http.StatusInternalServerError,
	}
}

// NewUnsupportedMethodError is returned for any verb the router does not map.
// The status is 400, not 405.
func NewUnsupportedMethodError() *HTTPError {
	code := CodeUnsupportedMethod
	return NewBadRequestError("Unsupported HTTP method", &code, nil)
}

// NewUserIDRequiredError is returned when an operation needs the userId
// query parameter and it is missing.
func NewUserIDRequiredError(operation string, errors []FieldError) *HTTPError {
	code := CodeUserIDRequired
	return NewBadRequestError("userId required for "+operation, &code, errors)
}
