package services

import "errors"

var (
	// ErrValidation is matched by every ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicate is matched by validation errors caused by a taken unique key.
	ErrDuplicate = errors.New("already exists")
	// ErrNotFound is matched by the entity-specific not-found errors below.
	ErrNotFound = errors.New("not found")

	ErrUnitNotFound     = notFound("unit not found")
	ErrPositionNotFound = notFound("position not found")
	ErrPersonNotFound   = notFound("person not found")
)

// ValidationError describes a rejected input. errors.Is matches it against
// ErrValidation, and against ErrDuplicate when Duplicate is set.
type ValidationError struct {
	Message   string
	Duplicate bool
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation || (e.Duplicate && target == ErrDuplicate)
}

// NewValidationError creates a ValidationError
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// NewDuplicateError creates a ValidationError for a taken unique key
func NewDuplicateError(message string) *ValidationError {
	return &ValidationError{Message: message, Duplicate: true}
}

type notFoundError struct {
	message string
}

func notFound(message string) error {
	return &notFoundError{message: message}
}

func (e *notFoundError) Error() string {
	return e.message
}

func (e *notFoundError) Is(target error) bool {
	return target == ErrNotFound
}
