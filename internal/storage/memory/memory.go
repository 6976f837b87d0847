// Package memory provides an in-process implementation of
// storage.Storage. Nothing survives a restart, which matches a roster
// that only lives for one session.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/aanand-mishra/trainer-roster/internal/storage"
	"github.com/aanand-mishra/trainer-roster/internal/types"
)

// Memory is safe for concurrent use.
type Memory struct {
	mu       sync.RWMutex
	students []types.Student
}

// New returns a store pre-loaded with initial (copied).
func New(initial ...types.Student) *Memory {
	m := &Memory{students: make([]types.Student, 0, len(initial))}
	for _, s := range initial {
		m.students = append(m.students, s.Clone())
	}
	return m
}

func (m *Memory) CreateStudent(_ context.Context, student types.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.students = append(m.students, student.Clone())
	return nil
}

func (m *Memory) UpdateStudent(_ context.Context, student types.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(student.ID)
	if i < 0 {
		return storage.ErrNotFound
	}
	m.students[i] = student.Clone()
	return nil
}

func (m *Memory) DeleteStudent(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(id)
	if i < 0 {
		return storage.ErrNotFound
	}
	m.students = slices.Delete(m.students, i, i+1)
	return nil
}

func (m *Memory) GetStudents(_ context.Context) ([]types.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.Student, 0, len(m.students))
	for _, s := range m.students {
		out = append(out, s.Clone())
	}
	return out, nil
}

func (m *Memory) index(id string) int {
	return slices.IndexFunc(m.students, func(s types.Student) bool {
		return s.ID == id
	})
}

// Demo returns the two sample students the dashboard ships with, with
// check-ins relative to now so the 7-day statistics have something to
// count.
func Demo(now time.Time) []types.Student {
	f := func(v float64) *float64 { return &v }
	t := func(d time.Duration) *time.Time { v := now.Add(-d); return &v }

	return []types.Student{
		{
			ID:            "1",
			Name:          "João Silva",
			Email:         "joao@email.com",
			Phone:         "(11) 99999-9999",
			Age:           28,
			JoinDate:      time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			Goal:          "Weight loss and muscle definition",
			CurrentWeight: f(85),
			TargetWeight:  f(75),
			Height:        f(180),
			LastCheckIn:   t(2 * 24 * time.Hour),
			AdherenceRate: 92,
			Status:        types.StatusActive,
		},
		{
			ID:            "2",
			Name:          "Maria Santos",
			Email:         "maria@email.com",
			Phone:         "(11) 88888-8888",
			Age:           25,
			JoinDate:      time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			Goal:          "Muscle gain",
			CurrentWeight: f(60),
			TargetWeight:  f(65),
			Height:        f(165),
			LastCheckIn:   t(10 * 24 * time.Hour),
			AdherenceRate: 88,
			Status:        types.StatusActive,
		},
	}
}
