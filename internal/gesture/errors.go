package gesture

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientPoints is returned when a stroke is too short to
	// normalize or to recognize.
	ErrInsufficientPoints = errors.New("insufficient points")

	// ErrNoTemplates marks a recognition attempt against an empty store.
	// Recognize does not return it; it is reported through Result.Reason.
	ErrNoTemplates = errors.New("no templates")

	// ErrEmptyName is returned when a pattern is saved without a name.
	ErrEmptyName = errors.New("pattern name is empty")

	// ErrIncompatible is returned when a canonical stroke was produced with
	// a different resample count than the store uses.
	ErrIncompatible = errors.New("incompatible canonical stroke")
)

// InsufficientPointsError carries the point counts behind an
// ErrInsufficientPoints failure.
type InsufficientPointsError struct {
	Got  int
	Want int
}

func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("insufficient points: got %d, need at least %d", e.Got, e.Want)
}

// Is reports whether target is ErrInsufficientPoints.
func (e *InsufficientPointsError) Is(target error) bool {
	return target == ErrInsufficientPoints
}

func insufficient(got, want int) error {
	return &InsufficientPointsError{Got: got, Want: want}
}
