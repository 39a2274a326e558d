package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := NewNotFoundError("Facility not found")
	assert.Equal(t, "NOT_FOUND: Facility not found", err.Error())

	wrapped := NewInternalError("failed to list reservations", fmt.Errorf("connection reset"))
	assert.Equal(t, "INTERNAL: failed to list reservations: connection reset", wrapped.Error())
	assert.EqualError(t, wrapped.Unwrap(), "connection reset")
}

func TestTypeOf_WrappedAppError(t *testing.T) {
	err := fmt.Errorf("reserve: %w", NewConflictError("Selected dates are not available."))

	assert.Equal(t, ErrorTypeConflict, TypeOf(err))
	assert.True(t, Is(err, ErrorTypeConflict))
	assert.Equal(t, "Selected dates are not available.", MessageOf(err))
}

func TestMessageOf_PlainErrorIsHidden(t *testing.T) {
	err := fmt.Errorf("pq: password authentication failed")

	assert.Equal(t, ErrorTypeInternal, TypeOf(err))
	assert.Equal(t, "internal server error", MessageOf(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{NewNotFoundError("x"), http.StatusNotFound},
		{NewValidationError("x"), http.StatusBadRequest},
		{NewConflictError("x"), http.StatusConflict},
		{NewUnauthorizedError("x"), http.StatusUnauthorized},
		{NewForbiddenError("x"), http.StatusForbidden},
		{NewInternalError("x", nil), http.StatusInternalServerError},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), tt.err.Error())
	}
}
