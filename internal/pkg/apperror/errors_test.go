package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsIdentity(t *testing.T) {
	cause := errors.New("connection reset")
	err := ErrAIServiceFailure.Wrap(cause)

	assert.ErrorIs(t, err, ErrAIServiceFailure)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, http.StatusInternalServerError, err.StatusCode)
}

func TestAsThroughFmtWrap(t *testing.T) {
	wrapped := fmt.Errorf("send chat: %w", ErrNotFound)

	appErr, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, appErr.StatusCode)

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}

func TestWithDetailsDoesNotMutateSentinel(t *testing.T) {
	detailed := ErrSessionTitleMissing.WithDetails(map[string]string{"field": "title"})

	assert.NotNil(t, detailed.Details)
	assert.Nil(t, ErrSessionTitleMissing.Details)
	assert.True(t, errors.Is(detailed, ErrSessionTitleMissing))
}
