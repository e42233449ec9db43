package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := NewExternalError("groq call failed", stderrors.New("status 503"))
	assert.Equal(t, "EXTERNAL: groq call failed: status 503", err.Error())

	plain := NewValidationError("symptoms are required")
	assert.Equal(t, "VALIDATION: symptoms are required", plain.Error())
}

func TestIsType_FollowsWrappedChain(t *testing.T) {
	cause := stderrors.New("dial tcp: refused")
	wrapped := fmt.Errorf("triage: %w", NewExternalError("llm unavailable", cause))

	assert.True(t, IsType(wrapped, ErrorTypeExternal))
	assert.False(t, IsType(wrapped, ErrorTypeValidation))
	assert.ErrorIs(t, wrapped, cause)

	appErr, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "llm unavailable", appErr.Message)
}

func TestIsType_PlainError(t *testing.T) {
	assert.False(t, IsType(stderrors.New("boom"), ErrorTypeInternal))
	assert.False(t, IsType(nil, ErrorTypeInternal))
}
