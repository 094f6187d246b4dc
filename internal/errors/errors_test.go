package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		err        error
		statusCode int
		code       string
	}{
		{ErrUserAlreadyExists, http.StatusBadRequest, "USER_ALREADY_EXISTS"},
		{ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{ErrNoteNotFound, http.StatusNotFound, "NOTE_NOT_FOUND"},
		{ErrInvalidUsername, http.StatusBadRequest, "VALIDATION_ERROR"},
		{ErrEmptyContent, http.StatusBadRequest, "VALIDATION_ERROR"},
		{ErrTitleTooLong, http.StatusBadRequest, "VALIDATION_ERROR"},
		{errors.New("database exploded"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			he := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.statusCode, he.StatusCode)
			assert.Equal(t, tt.code, he.Code)
		})
	}
}

func TestMapErrorToHTTP_WrappedErrors(t *testing.T) {
	he := MapErrorToHTTP(fmt.Errorf("find note: %w", ErrNoteNotFound))
	assert.Equal(t, http.StatusNotFound, he.StatusCode)
}

func TestMapErrorToHTTP_NeverLeaksInternals(t *testing.T) {
	he := MapErrorToHTTP(errors.New("dial tcp 10.0.0.5:3306: connection refused"))
	assert.Equal(t, "internal server error", he.Message)
	assert.NotContains(t, he.ToErrorResponse().Error, "tcp")
}
