package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIs_MatchesOnCode(t *testing.T) {
	assert.True(t, errors.Is(ErrEmptyUsername, ErrValidation))
	assert.True(t, errors.Is(ErrNoPlayer, ErrNotFound))
	assert.True(t, errors.Is(ErrNoActiveRound, ErrNotFound))
	assert.False(t, errors.Is(ErrNoPlayer, ErrValidation))

	wrapped := fmt.Errorf("check guess: %w", ErrNoPlayer)
	assert.True(t, errors.Is(wrapped, ErrNotFound))

	var ge *GameError
	assert.True(t, errors.As(wrapped, &ge))
	assert.Equal(t, "Player not found", ge.Message)
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, ErrEmptyUsername.HTTPStatus())
	assert.Equal(t, http.StatusNotFound, ErrNoPlayer.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, (&GameError{}).HTTPStatus())
}
