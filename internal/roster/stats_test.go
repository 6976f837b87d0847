package roster

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aanand-mishra/trainer-roster/internal/storage/memory"
	"github.com/aanand-mishra/trainer-roster/internal/types"
)

func TestStatsEmptyRoster(t *testing.T) {
	m := newTestManager(t, nil, Options{})

	got := m.Stats(testNow)
	want := types.Stats{RemainingSlots: DefaultMaxStudents}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestStatsFullRosterScenario(t *testing.T) {
	m := newTestManager(t, nil, Options{})
	added := addN(t, m, DefaultMaxStudents)

	full := 100
	for _, s := range added {
		if _, err := m.Update(context.Background(), s.ID, types.StudentPatch{AdherenceRate: &full}); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
	}

	if got := m.Stats(testNow).AvgAdherence; got != 100 {
		t.Errorf("avgAdherence: expected 100, got %d", got)
	}

	if _, err := m.Add(context.Background(), sampleInput("Sixth")); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}
	if got := m.Stats(testNow).RemainingSlots; got != 0 {
		t.Errorf("remainingSlots: expected 0, got %d", got)
	}
}

func TestComputeStats(t *testing.T) {
	ago := func(d time.Duration) *time.Time { v := testNow.Add(-d); return &v }
	days := func(n float64) time.Duration { return time.Duration(n * float64(day)) }

	tests := []struct {
		name     string
		students []types.Student
		want     types.Stats
	}{
		{
			name: "check-in eight days ago is not recent, three days ago is",
			students: []types.Student{
				{ID: "old", LastCheckIn: ago(days(8)), Status: types.StatusActive},
				{ID: "new", LastCheckIn: ago(days(3)), Status: types.StatusActive},
			},
			want: types.Stats{Total: 2, Active: 2, RecentCheckIns: 1, RemainingSlots: 3},
		},
		{
			name: "exactly seven days and seven and a half days both count",
			students: []types.Student{
				{ID: "a", LastCheckIn: ago(days(7))},
				{ID: "b", LastCheckIn: ago(days(7.5))},
				{ID: "c"},
			},
			want: types.Stats{Total: 3, RecentCheckIns: 2, RemainingSlots: 2},
		},
		{
			name: "window ends at the eighth whole day",
			students: []types.Student{
				{ID: "edge", LastCheckIn: ago(8*day - time.Nanosecond)},
				{ID: "out", LastCheckIn: ago(8 * day)},
				{ID: "later", LastCheckIn: ago(8*day + time.Hour)},
			},
			want: types.Stats{Total: 3, RecentCheckIns: 1, RemainingSlots: 2},
		},
		{
			name: "average is rounded half up",
			students: []types.Student{
				{ID: "a", AdherenceRate: 90, Status: types.StatusActive},
				{ID: "b", AdherenceRate: 85, Status: types.StatusInactive},
			},
			want: types.Stats{Total: 2, Active: 1, AvgAdherence: 88, RemainingSlots: 3},
		},
		{
			name: "average is rounded down below the half",
			students: []types.Student{
				{ID: "a", AdherenceRate: 10},
				{ID: "b", AdherenceRate: 10},
				{ID: "c", AdherenceRate: 11, Status: types.StatusPending},
			},
			want: types.Stats{Total: 3, AvgAdherence: 10, RemainingSlots: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeStats(tt.students, DefaultMaxStudents, testNow)
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestCard(t *testing.T) {
	demo := memory.Demo(testNow)
	m := newTestManager(t, memory.New(demo...), Options{})

	c, err := m.Card(demo[0].ID, testNow)
	if err != nil {
		t.Fatalf("Card failed: %v", err)
	}

	if c.Initials != "JS" {
		t.Errorf("initials: expected JS, got %q", c.Initials)
	}
	if c.StatusLabel != "Active" {
		t.Errorf("statusLabel: expected Active, got %q", c.StatusLabel)
	}
	if c.DaysSinceCheckIn == nil || *c.DaysSinceCheckIn != 2 {
		t.Errorf("daysSinceCheckIn: expected 2, got %v", c.DaysSinceCheckIn)
	}
	if c.WeightToTarget == nil || *c.WeightToTarget != -10 {
		t.Errorf("weightToTarget: expected -10, got %v", c.WeightToTarget)
	}

	if _, err := m.Card("missing", testNow); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCardWithoutOptionalFields(t *testing.T) {
	c := CardFor(types.Student{Name: "ana  de souza", Status: types.StatusPending}, testNow)

	if c.Initials != "ADS" {
		t.Errorf("initials: expected ADS, got %q", c.Initials)
	}
	if c.DaysSinceCheckIn != nil || c.WeightToTarget != nil {
		t.Errorf("expected no derived optional values, got %+v", c)
	}
	if c.StatusLabel != "Pending" {
		t.Errorf("statusLabel: expected Pending, got %q", c.StatusLabel)
	}
}
