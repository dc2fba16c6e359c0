package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassification(t *testing.T) {
	wrapped := fmt.Errorf("failed to collect payment: %w", NewAlreadySatisfied("session already paid"))

	assert.True(t, IsAlreadySatisfied(wrapped))
	assert.False(t, IsValidation(wrapped))
	assert.False(t, IsNotFound(errors.New("connection reset")))

	var appErr *AppError
	if assert.True(t, errors.As(wrapped, &appErr)) {
		assert.Equal(t, http.StatusConflict, appErr.StatusCode())
	}
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, NewValidation("amount", "amount must be >= 0").StatusCode())
	assert.Equal(t, http.StatusNotFound, NewNotFound("session", nil).StatusCode())
	assert.Equal(t, http.StatusUnauthorized, NewUnauthorized("invalid token", nil).StatusCode())
	assert.Equal(t, http.StatusInternalServerError, NewInternal(errors.New("boom")).StatusCode())
}

func TestIsMatchesCodeAndMessage(t *testing.T) {
	sentinel := NewAlreadySatisfied("session already paid")

	assert.ErrorIs(t, fmt.Errorf("wrap: %w", NewAlreadySatisfied("session already paid")), sentinel)
	assert.NotErrorIs(t, NewAlreadySatisfied("participant already paid"), sentinel)
	assert.ErrorIs(t, NewValidation("date", "bad date"), &AppError{Code: ErrValidation})
}

func TestErrorUnwrapsTransportCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := NewInternal(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "internal server error: dial tcp: connection refused", err.Error())
}
