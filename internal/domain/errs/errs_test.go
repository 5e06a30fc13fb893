package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError(map[string]string{"year": "too big", "name": "required"})
	assert.Equal(t, "invalid data: name: required; year: too big", err.Error())

	wrapped := fmt.Errorf("create title: %w", err)
	vErr, ok := IsValidation(wrapped)
	require.True(t, ok)
	assert.Equal(t, "too big", vErr.Fields["year"])

	_, ok = IsValidation(ErrNotFound)
	assert.False(t, ok)
}

func TestConflictError(t *testing.T) {
	err := NewConflict("slug", "already taken")
	assert.True(t, errors.Is(err, ErrConflict))
	assert.True(t, errors.Is(fmt.Errorf("insert: %w", err), ErrConflict))
	assert.Equal(t, "slug: already taken", err.Error())

	var cErr *ConflictError
	require.True(t, errors.As(fmt.Errorf("insert: %w", err), &cErr))
	assert.Equal(t, "slug", cErr.Field)
}
