package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserAlreadyExists is returned when the username or email is taken.
	ErrUserAlreadyExists = errors.New("user with this email or username already exists")
	// ErrInvalidCredentials is returned for both an unknown email and a wrong
	// password; the message is deliberately identical in both cases.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized is returned when the bearer token is missing, malformed,
	// expired, or resolves to a user that no longer exists.
	ErrUnauthorized = errors.New("not authorized")
	// ErrForbidden is returned when acting on another user's resource.
	ErrForbidden = errors.New("not authorized to access this note")
	// ErrNoteNotFound is returned when no note with the given id exists.
	ErrNoteNotFound = errors.New("note not found")
	// ErrInvalidUsername is returned when a username is outside 3-30
	// characters after trimming.
	ErrInvalidUsername = errors.New("username must be between 3 and 30 characters")
	// ErrEmptyContent is returned when note content is empty after trimming.
	ErrEmptyContent = errors.New("note content is required")
	// ErrTitleTooLong is returned when a note title exceeds 200 characters.
	ErrTitleTooLong = errors.New("title cannot exceed 200 characters")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
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
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything outside the
// taxonomy collapses to a generic 500 so internals are never leaked.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUserAlreadyExists):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "USER_ALREADY_EXISTS")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "UNAUTHORIZED")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrNoteNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "NOTE_NOT_FOUND")
	case errors.Is(err, ErrInvalidUsername):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	case errors.Is(err, ErrEmptyContent):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	case errors.Is(err, ErrTitleTooLong):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
