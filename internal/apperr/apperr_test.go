package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"project-workspaces/backend/internal/apperr"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(apperr.NotFound("gone")))
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(apperr.Conflict("dup")))
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(errors.New("plain")))

	wrapped := fmt.Errorf("outer: %w", apperr.InvalidArgument("bad"))
	assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(wrapped))
}

func TestMessageOfHidesInternalCause(t *testing.T) {
	assert.Equal(t, "gone", apperr.MessageOf(apperr.NotFound("gone")))

	internal := apperr.Internal("query failed", errors.New("connection refused"))
	assert.Equal(t, "internal server error", apperr.MessageOf(internal))
	assert.NotContains(t, apperr.MessageOf(internal), "connection refused")
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("db down")
	err := apperr.Internal("lookup failed", cause)
	assert.ErrorIs(t, err, cause)
}
