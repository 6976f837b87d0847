package types

import (
	"testing"
	"time"
)

func TestStudentPatchApply(t *testing.T) {
	checkIn := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	orig := Student{
		ID:            "s1",
		Name:          "Ana Lima",
		Phone:         "(11) 90000-0000",
		Avatar:        "ana.png",
		Goal:          "Run a half marathon",
		Height:        ptr(170.0),
		CurrentWeight: ptr(70.0),
		LastCheckIn:   &checkIn,
		AdherenceRate: 60,
		Status:        StatusActive,
	}

	t.Run("nil fields leave optional values in place", func(t *testing.T) {
		got := StudentPatch{Goal: ptr("Deadlift 150kg")}.Apply(orig)

		if got.Goal != "Deadlift 150kg" {
			t.Errorf("goal: expected patched value, got %q", got.Goal)
		}
		if got.Avatar != "ana.png" || got.Height == nil || *got.Height != 170 ||
			got.LastCheckIn == nil || !got.LastCheckIn.Equal(checkIn) {
			t.Errorf("optional fields not preserved: %+v", got)
		}
	})

	t.Run("zero values are applied", func(t *testing.T) {
		got := StudentPatch{AdherenceRate: ptr(0), Avatar: ptr("")}.Apply(orig)

		if got.AdherenceRate != 0 {
			t.Errorf("adherenceRate: expected 0, got %d", got.AdherenceRate)
		}
		if got.Avatar != "" {
			t.Errorf("avatar: expected empty, got %q", got.Avatar)
		}
	})

	t.Run("original is not modified", func(t *testing.T) {
		later := checkIn.Add(48 * time.Hour)
		got := StudentPatch{
			Name:          ptr("Ana L."),
			CurrentWeight: ptr(68.5),
			LastCheckIn:   &later,
			Status:        ptr(StatusInactive),
		}.Apply(orig)

		if orig.Name != "Ana Lima" || *orig.CurrentWeight != 70 ||
			!orig.LastCheckIn.Equal(checkIn) || orig.Status != StatusActive {
			t.Errorf("original changed: %+v", orig)
		}
		if got.CurrentWeight == orig.CurrentWeight {
			t.Error("patched student aliases the original's weight")
		}

		later = later.Add(time.Hour)
		if !got.LastCheckIn.Equal(checkIn.Add(48 * time.Hour)) {
			t.Errorf("patched student aliases the patch's check-in: %v", got.LastCheckIn)
		}
	})
}

func TestStatusValidAndLabel(t *testing.T) {
	tests := []struct {
		status Status
		valid  bool
		label  string
	}{
		{StatusActive, true, "Active"},
		{StatusInactive, true, "Inactive"},
		{StatusPending, true, "Pending"},
		{Status("archived"), false, "Unknown"},
		{Status(""), false, "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.status.Valid(); got != tt.valid {
			t.Errorf("%q.Valid(): expected %v, got %v", tt.status, tt.valid, got)
		}
		if got := tt.status.Label(); got != tt.label {
			t.Errorf("%q.Label(): expected %q, got %q", tt.status, tt.label, got)
		}
	}
}
