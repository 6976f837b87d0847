// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// the roster, handlers, and storage can all import types without
// depending on each other.
package types

import "time"

// Status is the lifecycle state of a student on the roster.
//
// A student starts as StatusPending and only moves to active or inactive
// through an explicit update by the trainer. There is no terminal state.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusPending  Status = "pending"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusPending:
		return true
	}
	return false
}

// Label is the human-facing name shown on a profile card.
func (s Status) Label() string {
	switch s {
	case StatusActive:
		return "Active"
	case StatusInactive:
		return "Inactive"
	case StatusPending:
		return "Pending"
	default:
		return "Unknown"
	}
}

// Student represents one client on the trainer's roster.
//
// Optional values are pointers so that "absent" is distinguishable from
// zero: a nil Height means the trainer never entered one, which is not
// the same as a height of 0.
//
// ID and JoinDate are assigned by the roster when the student is added
// and never change afterwards.
type Student struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	Avatar        string     `json:"avatar,omitempty"`
	Age           int        `json:"age"`
	JoinDate      time.Time  `json:"joinDate"`
	Goal          string     `json:"goal"`
	CurrentWeight *float64   `json:"currentWeight,omitempty"`
	TargetWeight  *float64   `json:"targetWeight,omitempty"`
	Height        *float64   `json:"height,omitempty"`
	LastCheckIn   *time.Time `json:"lastCheckIn,omitempty"`
	AdherenceRate int        `json:"adherenceRate"`
	Status        Status     `json:"status"`
}

// NewStudent is the input for adding a student: every Student field
// except the ones the roster assigns itself (id, joinDate,
// adherenceRate, status).
//
// validate:"..." tags are checked with go-playground/validator before
// the roster accepts the data.
type NewStudent struct {
	Name          string     `json:"name"          validate:"required"`
	Email         string     `json:"email"         validate:"required,email"`
	Phone         string     `json:"phone"         validate:"required"`
	Avatar        string     `json:"avatar,omitempty"`
	Age           int        `json:"age"           validate:"required,min=16,max=80"`
	Goal          string     `json:"goal"          validate:"required"`
	CurrentWeight *float64   `json:"currentWeight,omitempty" validate:"omitempty,gt=0"`
	TargetWeight  *float64   `json:"targetWeight,omitempty"  validate:"omitempty,gt=0"`
	Height        *float64   `json:"height,omitempty"        validate:"omitempty,gt=0"`
	LastCheckIn   *time.Time `json:"lastCheckIn,omitempty"`
}

// StudentPatch is a partial update. A nil field is left untouched.
// ID and JoinDate are deliberately absent: they cannot be changed.
//
// Because nil means "untouched", a patch cannot clear an optional field
// (avatar, weights, height, lastCheckIn) back to absent; it can only
// replace its value. Setting a field to its zero value (adherenceRate 0,
// for example) is applied like any other value.
type StudentPatch struct {
	Name          *string    `json:"name,omitempty"          validate:"omitempty,min=1"`
	Email         *string    `json:"email,omitempty"         validate:"omitempty,email"`
	Phone         *string    `json:"phone,omitempty"         validate:"omitempty,min=1"`
	Avatar        *string    `json:"avatar,omitempty"`
	Age           *int       `json:"age,omitempty"           validate:"omitempty,min=16,max=80"`
	Goal          *string    `json:"goal,omitempty"          validate:"omitempty,min=1"`
	CurrentWeight *float64   `json:"currentWeight,omitempty" validate:"omitempty,gt=0"`
	TargetWeight  *float64   `json:"targetWeight,omitempty"  validate:"omitempty,gt=0"`
	Height        *float64   `json:"height,omitempty"        validate:"omitempty,gt=0"`
	LastCheckIn   *time.Time `json:"lastCheckIn,omitempty"`
	AdherenceRate *int       `json:"adherenceRate,omitempty" validate:"omitempty,min=0,max=100"`
	Status        *Status    `json:"status,omitempty"        validate:"omitempty,oneof=active inactive pending"`
}

// Apply merges the non-nil fields of p into s and returns the result.
// s itself is not modified.
func (p StudentPatch) Apply(s Student) Student {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Email != nil {
		s.Email = *p.Email
	}
	if p.Phone != nil {
		s.Phone = *p.Phone
	}
	if p.Avatar != nil {
		s.Avatar = *p.Avatar
	}
	if p.Age != nil {
		s.Age = *p.Age
	}
	if p.Goal != nil {
		s.Goal = *p.Goal
	}
	if p.CurrentWeight != nil {
		s.CurrentWeight = ptr(*p.CurrentWeight)
	}
	if p.TargetWeight != nil {
		s.TargetWeight = ptr(*p.TargetWeight)
	}
	if p.Height != nil {
		s.Height = ptr(*p.Height)
	}
	if p.LastCheckIn != nil {
		s.LastCheckIn = ptr(*p.LastCheckIn)
	}
	if p.AdherenceRate != nil {
		s.AdherenceRate = *p.AdherenceRate
	}
	if p.Status != nil {
		s.Status = *p.Status
	}
	return s
}

// Stats is the aggregate view of the roster shown on the dashboard.
type Stats struct {
	Total          int `json:"total"`
	Active         int `json:"active"`
	AvgAdherence   int `json:"avgAdherence"`
	RecentCheckIns int `json:"recentCheckIns"`
	RemainingSlots int `json:"remainingSlots"`
}

// Card is the per-student profile summary.
type Card struct {
	Student
	Initials         string   `json:"initials"`
	StatusLabel      string   `json:"statusLabel"`
	DaysSinceCheckIn *int     `json:"daysSinceCheckIn,omitempty"`
	WeightToTarget   *float64 `json:"weightToTarget,omitempty"`
}

// Clone returns a deep copy of s so callers cannot alias the roster's
// optional fields.
func (s Student) Clone() Student {
	if s.CurrentWeight != nil {
		s.CurrentWeight = ptr(*s.CurrentWeight)
	}
	if s.TargetWeight != nil {
		s.TargetWeight = ptr(*s.TargetWeight)
	}
	if s.Height != nil {
		s.Height = ptr(*s.Height)
	}
	if s.LastCheckIn != nil {
		s.LastCheckIn = ptr(*s.LastCheckIn)
	}
	return s
}

func ptr[T any](v T) *T { return &v }
