// Package roster owns a trainer's list of students.
//
// A Manager is the only thing allowed to change the list. It enforces
// the capacity limit, assigns ids and join dates, writes every change
// through to a storage.Storage after a configurable delay, and derives
// the dashboard statistics on demand.
//
// Mutations are serialized: Add, Update and Remove queue on a single
// lock that is held across the delay, the storage call and the in-memory
// change. Capacity is checked again once the lock is held, so two adds
// racing for the last slot cannot both succeed. Busy reports whether any
// mutation is queued or running; it is informational only.
package roster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/aanand-mishra/trainer-roster/internal/storage"
	"github.com/aanand-mishra/trainer-roster/internal/storage/memory"
	"github.com/aanand-mishra/trainer-roster/internal/types"
)

// DefaultMaxStudents is the capacity used when Options.Max is zero.
const DefaultMaxStudents = 5

// Default simulated latencies.
const (
	DefaultAddDelay    = time.Second
	DefaultMutateDelay = 500 * time.Millisecond
)

// Recorder receives operation outcomes. *metrics.Metrics implements it.
type Recorder interface {
	Observe(op, outcome string, d time.Duration)
	SetSize(n int)
}

// Options configures a Manager. Zero values pick the defaults.
type Options struct {
	Max         int
	AddDelay    time.Duration
	MutateDelay time.Duration

	Delayer  Delayer
	Clock    func() time.Time
	NewID    func() string
	Logger   *slog.Logger
	Recorder Recorder
}

// Manager is safe for concurrent use.
type Manager struct {
	max         int
	addDelay    time.Duration
	mutateDelay time.Duration

	store    storage.Storage
	delay    Delayer
	now      func() time.Time
	newID    func() string
	log      *slog.Logger
	rec      Recorder
	validate *validator.Validate

	// write serializes mutations; mu guards students and version.
	write    sync.Mutex
	mu       sync.RWMutex
	students []types.Student
	version  uint64

	busy atomic.Int32
}

// New builds a Manager whose initial students are loaded from store.
// A nil store means an empty in-memory one.
func New(ctx context.Context, store storage.Storage, opts Options) (*Manager, error) {
	if store == nil {
		store = memory.New()
	}

	m := &Manager{
		max:         opts.Max,
		addDelay:    opts.AddDelay,
		mutateDelay: opts.MutateDelay,
		store:       store,
		delay:       opts.Delayer,
		now:         opts.Clock,
		newID:       opts.NewID,
		log:         opts.Logger,
		rec:         opts.Recorder,
		validate:    validator.New(),
	}
	if m.max <= 0 {
		m.max = DefaultMaxStudents
	}
	if m.addDelay == 0 {
		m.addDelay = DefaultAddDelay
	}
	if m.mutateDelay == 0 {
		m.mutateDelay = DefaultMutateDelay
	}
	if m.delay == nil {
		m.delay = TimerDelayer{}
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.newID == nil {
		m.newID = uuid.NewString
	}
	if m.log == nil {
		m.log = slog.Default()
	}
	if m.rec == nil {
		m.rec = nopRecorder{}
	}

	initial, err := store.GetStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("roster.New: load students: %w", err)
	}
	if len(initial) > m.max {
		return nil, fmt.Errorf("roster.New: %d stored students: %w",
			len(initial), &CapacityExceededError{Max: m.max})
	}

	seen := make(map[string]struct{}, len(initial))
	for _, s := range initial {
		if _, dup := seen[s.ID]; dup {
			return nil, fmt.Errorf("roster.New: duplicate student id %q", s.ID)
		}
		seen[s.ID] = struct{}{}
	}

	m.students = initial
	m.rec.SetSize(len(initial))
	return m, nil
}

// Max is the configured capacity.
func (m *Manager) Max() int { return m.max }

// Busy reports whether a mutation is queued or in flight.
func (m *Manager) Busy() bool { return m.busy.Load() > 0 }

// Version increases by one on every successful mutation.
func (m *Manager) Version() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.version
}

// Len is the current number of students.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.students)
}

// CanAdd reports whether there is a free slot right now.
func (m *Manager) CanAdd() bool { return m.Len() < m.max }

// RemainingSlots is Max minus the current number of students.
func (m *Manager) RemainingSlots() int { return m.max - m.Len() }

// Students returns a copy of the roster in display order.
func (m *Manager) Students() []types.Student {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.Student, 0, len(m.students))
	for _, s := range m.students {
		out = append(out, s.Clone())
	}
	return out
}

// Get returns the student with the given id.
func (m *Manager) Get(id string) (types.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.indexLocked(id)
	if i < 0 {
		return types.Student{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return m.students[i].Clone(), nil
}

// Add creates a pending student with a fresh id.
//
// It fails immediately with *CapacityExceededError when the roster is
// full, and again after the delay if another add took the last slot in
// the meantime. Invalid input is reported as validator.ValidationErrors.
func (m *Manager) Add(ctx context.Context, in types.NewStudent) (st types.Student, err error) {
	const op = "add"
	start := time.Now()
	defer func() { m.observe(op, start, err) }()

	if err := m.validate.Struct(in); err != nil {
		return types.Student{}, err
	}
	if err := notBlank(
		field{"name", &in.Name},
		field{"phone", &in.Phone},
		field{"goal", &in.Goal},
	); err != nil {
		return types.Student{}, err
	}
	if !m.CanAdd() {
		return types.Student{}, &CapacityExceededError{Max: m.max}
	}

	release, err := m.begin(ctx, m.addDelay)
	if err != nil {
		return types.Student{}, err
	}
	defer release()

	if m.Len() >= m.max {
		return types.Student{}, &CapacityExceededError{Max: m.max}
	}

	st = types.Student{
		ID:            m.uniqueID(),
		Name:          in.Name,
		Email:         in.Email,
		Phone:         in.Phone,
		Avatar:        in.Avatar,
		Age:           in.Age,
		JoinDate:      m.now(),
		Goal:          in.Goal,
		CurrentWeight: in.CurrentWeight,
		TargetWeight:  in.TargetWeight,
		Height:        in.Height,
		LastCheckIn:   in.LastCheckIn,
		AdherenceRate: 0,
		Status:        types.StatusPending,
	}.Clone()

	// Once the backend call starts it runs to completion.
	if err := m.store.CreateStudent(context.WithoutCancel(ctx), st); err != nil {
		return types.Student{}, fmt.Errorf("roster.Add: %w", err)
	}

	m.mu.Lock()
	m.students = append(m.students, st)
	m.version++
	n := len(m.students)
	m.mu.Unlock()

	m.rec.SetSize(n)
	m.log.Info("student added",
		slog.String("id", st.ID),
		slog.Int("total", n),
	)

	return st.Clone(), nil
}

// Update merges patch into the student with the given id and returns
// the result. Fields left nil in patch are unchanged.
func (m *Manager) Update(ctx context.Context, id string, patch types.StudentPatch) (st types.Student, err error) {
	const op = "update"
	start := time.Now()
	defer func() { m.observe(op, start, err) }()

	if err := m.validate.Struct(patch); err != nil {
		return types.Student{}, err
	}
	if err := notBlank(
		field{"name", patch.Name},
		field{"phone", patch.Phone},
		field{"goal", patch.Goal},
	); err != nil {
		return types.Student{}, err
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return types.Student{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *patch.Status)
	}

	release, err := m.begin(ctx, m.mutateDelay)
	if err != nil {
		return types.Student{}, err
	}
	defer release()

	cur, err := m.Get(id)
	if err != nil {
		return types.Student{}, err
	}
	next := patch.Apply(cur)

	if err := m.store.UpdateStudent(context.WithoutCancel(ctx), next); err != nil {
		return types.Student{}, fmt.Errorf("roster.Update: %w", err)
	}

	m.mu.Lock()
	m.students[m.indexLocked(id)] = next
	m.version++
	m.mu.Unlock()

	m.log.Info("student updated", slog.String("id", id))
	return next.Clone(), nil
}

// Remove deletes the student with the given id.
func (m *Manager) Remove(ctx context.Context, id string) (err error) {
	const op = "remove"
	start := time.Now()
	defer func() { m.observe(op, start, err) }()

	release, err := m.begin(ctx, m.mutateDelay)
	if err != nil {
		return err
	}
	defer release()

	if _, err := m.Get(id); err != nil {
		return err
	}

	if err := m.store.DeleteStudent(context.WithoutCancel(ctx), id); err != nil {
		return fmt.Errorf("roster.Remove: %w", err)
	}

	m.mu.Lock()
	i := m.indexLocked(id)
	m.students = slices.Delete(m.students, i, i+1)
	m.version++
	n := len(m.students)
	m.mu.Unlock()

	m.rec.SetSize(n)
	m.log.Info("student removed",
		slog.String("id", id),
		slog.Int("total", n),
	)
	return nil
}

// begin marks the manager busy, waits for the write lock and then for
// the simulated latency. The returned func must be called to release.
func (m *Manager) begin(ctx context.Context, d time.Duration) (func(), error) {
	m.busy.Add(1)
	m.write.Lock()

	release := func() {
		m.write.Unlock()
		m.busy.Add(-1)
	}

	if err := m.delay.Sleep(ctx, d); err != nil {
		release()
		return nil, err
	}
	return release, nil
}

// uniqueID must be called with the write lock held.
func (m *Manager) uniqueID() string {
	for {
		id := m.newID()
		if _, err := m.Get(id); errors.Is(err, ErrNotFound) {
			return id
		}
	}
}

type field struct {
	name  string
	value *string
}

// notBlank rejects any present value that is empty or whitespace only.
func notBlank(fields ...field) error {
	for _, f := range fields {
		if f.value != nil && strings.TrimSpace(*f.value) == "" {
			return fmt.Errorf("%w: %s must not be blank", ErrInvalidInput, f.name)
		}
	}
	return nil
}

func (m *Manager) indexLocked(id string) int {
	return slices.IndexFunc(m.students, func(s types.Student) bool {
		return s.ID == id
	})
}

func (m *Manager) observe(op string, start time.Time, err error) {
	outcome := outcomeOf(err)
	m.rec.Observe(op, outcome, time.Since(start))

	switch outcome {
	case "ok":
	case "error":
		m.log.Error("roster operation failed",
			slog.String("op", op),
			slog.String("error", err.Error()),
		)
	default:
		m.log.Debug("roster operation rejected",
			slog.String("op", op),
			slog.String("outcome", outcome),
			slog.String("error", err.Error()),
		)
	}
}

func outcomeOf(err error) string {
	var verrs validator.ValidationErrors
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidInput), errors.As(err, &verrs):
		return "invalid"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}

type nopRecorder struct{}

func (nopRecorder) Observe(string, string, time.Duration) {}
func (nopRecorder) SetSize(int)                           {}
