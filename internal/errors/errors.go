package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrPlaceNotFound is returned when a place is not found.
	ErrPlaceNotFound = errors.New("could not find a place for the provided id")
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("could not find a user for the provided id")
	// ErrEmailExists is returned when signing up with an already registered email.
	ErrEmailExists = errors.New("could not register user, email already exists")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNotOwner is returned when a user tries to modify a place they do not own.
	ErrNotOwner = errors.New("you are not allowed to modify this place")
	// ErrLocationNotFound is returned when the geocoder has no result for an address.
	ErrLocationNotFound = errors.New("could not find location for the specified address")
	// ErrGeocoderUnavailable is returned when the geocoding call itself fails.
	ErrGeocoderUnavailable = errors.New("resolving the address failed, please try again")
	// ErrInvalidImage is returned when an uploaded file is missing, too large, or not an image.
	ErrInvalidImage = errors.New("invalid image file")
	// ErrCreateFailed is returned when the paired create writes could not be committed.
	ErrCreateFailed = errors.New("creating place failed, please try again")
	// ErrUpdateFailed is returned when persisting a place update fails.
	ErrUpdateFailed = errors.New("updating place failed, please try again")
	// ErrDeleteFailed is returned when the paired delete writes could not be committed.
	ErrDeleteFailed = errors.New("deleting place failed, please try again")
	// ErrAuthFailed is returned by the authentication gate.
	ErrAuthFailed = errors.New("authentication failed")
)

// ValidationError reports client input that failed domain validation,
// naming the offending fields. Checked before any I/O happens.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input for: %s", strings.Join(e.Fields, ", "))
}

// NewValidationError creates a validation error for the given fields.
func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// ErrorResponse represents a standardized error response body.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Message: e.Message,
		Code:    e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Raw store or transport
// errors fall through to a generic 500.
func MapErrorToHTTP(err error) *HTTPError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return NewHTTPError(http.StatusUnprocessableEntity, ve.Error(), "VALIDATION_ERROR")
	}

	switch {
	case errors.Is(err, ErrPlaceNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "PLACE_NOT_FOUND")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrEmailExists):
		return NewHTTPError(http.StatusUnprocessableEntity, err.Error(), "EMAIL_EXISTS")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrNotOwner):
		return NewHTTPError(http.StatusForbidden, err.Error(), "NOT_OWNER")
	case errors.Is(err, ErrLocationNotFound):
		return NewHTTPError(http.StatusUnprocessableEntity, err.Error(), "LOCATION_NOT_FOUND")
	case errors.Is(err, ErrGeocoderUnavailable):
		return NewHTTPError(http.StatusInternalServerError, err.Error(), "GEOCODER_UNAVAILABLE")
	case errors.Is(err, ErrInvalidImage):
		return NewHTTPError(http.StatusUnprocessableEntity, err.Error(), "INVALID_IMAGE")
	case errors.Is(err, ErrCreateFailed):
		return NewHTTPError(http.StatusInternalServerError, err.Error(), "CREATE_FAILED")
	case errors.Is(err, ErrUpdateFailed):
		return NewHTTPError(http.StatusInternalServerError, err.Error(), "UPDATE_FAILED")
	case errors.Is(err, ErrDeleteFailed):
		return NewHTTPError(http.StatusInternalServerError, err.Error(), "DELETE_FAILED")
	case errors.Is(err, ErrAuthFailed):
		return NewHTTPError(http.StatusForbidden, err.Error(), "AUTH_FAILED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "an unknown error occurred", "INTERNAL_ERROR")
	}
}
