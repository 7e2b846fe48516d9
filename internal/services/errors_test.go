package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_Is(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewValidationError("name is required"))
	assert.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrDuplicate)

	dup := NewDuplicateError("unit already exists")
	assert.ErrorIs(t, dup, ErrValidation)
	assert.ErrorIs(t, dup, ErrDuplicate)

	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.Equal(t, "name is required", ve.Message)
}

func TestNotFound_Is(t *testing.T) {
	assert.ErrorIs(t, ErrPersonNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrUnitNotFound, ErrNotFound)
	assert.NotErrorIs(t, ErrPersonNotFound, ErrUnitNotFound)
}
