package roster

import (
	"errors"
	"fmt"
)

var (
	// ErrCapacityExceeded matches any *CapacityExceededError via errors.Is.
	ErrCapacityExceeded = errors.New("roster capacity exceeded")

	// ErrNotFound is returned by Get, Update, Remove and Card for an
	// unknown id. Callers that want remove to be idempotent can ignore it.
	ErrNotFound = errors.New("student not found")

	// ErrInvalidInput wraps input problems the validator tags cannot express.
	ErrInvalidInput = errors.New("invalid input")
)

// CapacityExceededError is returned by Add when the roster is full.
type CapacityExceededError struct {
	Max int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("maximum of %d students reached", e.Max)
}

func (e *CapacityExceededError) Is(target error) bool {
	return target == ErrCapacityExceeded
}
