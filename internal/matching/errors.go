package matching

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData is returned when the corpus is too small to train on.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrModelNotTrained is returned by search when no artifact has been published.
	ErrModelNotTrained = errors.New("model not trained")
	// ErrNotFound is matched by every NotFoundError.
	ErrNotFound = errors.New("not found")
	// ErrNoArtifact is returned by an ArtifactStore that holds nothing yet.
	ErrNoArtifact = errors.New("no stored artifact")
	// ErrInvalidInput is matched by every ValidationError.
	ErrInvalidInput = errors.New("invalid input")
)

// InsufficientDataError reports a corpus below the training minimum.
type InsufficientDataError struct {
	CorpusSize int
	Minimum    int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: corpus has %d usable recipes, at least %d required", e.CorpusSize, e.Minimum)
}

func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}

// ValidationError names the caller input constraint that was violated.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NotFoundError references an unknown user or recipe.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
