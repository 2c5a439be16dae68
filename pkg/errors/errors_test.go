package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneKeepsIdentity(t *testing.T) {
	clone := Clone(ErrNotFound, "appeal not found")

	assert.Equal(t, "appeal not found", clone.Message)
	assert.Equal(t, "resource not found", ErrNotFound.Message)
	assert.True(t, stderrors.Is(clone, ErrNotFound))
	assert.False(t, stderrors.Is(clone, ErrValidation))
}

func TestFromErrorWrapsUnknown(t *testing.T) {
	appErr := FromError(fmt.Errorf("boom"))

	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.EqualError(t, appErr, "internal server error: boom")
}

func TestFromErrorUnwrapsTyped(t *testing.T) {
	wrapped := fmt.Errorf("context: %w", ErrWeekInactive)
	assert.Same(t, ErrWeekInactive, FromError(wrapped))
	assert.Nil(t, FromError(nil))
}
