// Package storage defines the Storage interface — the backend the roster
// writes through to after its simulated latency.
//
// The roster keeps the authoritative in-memory list itself; a Storage
// only mirrors it. That keeps the roster testable with a fake backend
// (including one that fails on purpose) and lets main.go choose between
// a throwaway in-memory store and a SQLite file without touching the
// roster or the handlers.
package storage

import (
	"context"
	"errors"

	"github.com/aanand-mishra/trainer-roster/internal/types"
)

// ErrNotFound is returned by backends when no student has the given id.
var ErrNotFound = errors.New("student not found")

// Storage is the persistence contract.
type Storage interface {
	// CreateStudent stores a fully-populated student (id already set).
	CreateStudent(ctx context.Context, student types.Student) error

	// UpdateStudent replaces the stored copy of student.ID.
	// Returns ErrNotFound if the id is unknown.
	UpdateStudent(ctx context.Context, student types.Student) error

	// DeleteStudent removes a student permanently.
	// Returns ErrNotFound if the id is unknown.
	DeleteStudent(ctx context.Context, id string) error

	// GetStudents returns every stored student in insertion order.
	// Returns an empty slice (not nil) if there are none.
	GetStudents(ctx context.Context) ([]types.Student, error)
}
