package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aanand-mishra/trainer-roster/internal/storage"
	"github.com/aanand-mishra/trainer-roster/internal/types"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	m := New(Demo(now)...)

	got, _ := m.GetStudents(ctx)
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "2" {
		t.Fatalf("unexpected seed: %+v", got)
	}

	// Returned copies must not alias the store.
	*got[0].CurrentWeight = 1
	again, _ := m.GetStudents(ctx)
	if *again[0].CurrentWeight != 85 {
		t.Errorf("store was mutated through a returned copy")
	}

	if err := m.CreateStudent(ctx, types.Student{ID: "3", Name: "Third"}); err != nil {
		t.Fatalf("CreateStudent failed: %v", err)
	}

	upd := again[1]
	upd.Status = types.StatusInactive
	if err := m.UpdateStudent(ctx, upd); err != nil {
		t.Fatalf("UpdateStudent failed: %v", err)
	}

	if err := m.DeleteStudent(ctx, "1"); err != nil {
		t.Fatalf("DeleteStudent failed: %v", err)
	}

	got, _ = m.GetStudents(ctx)
	if len(got) != 2 || got[0].ID != "2" || got[0].Status != types.StatusInactive || got[1].ID != "3" {
		t.Errorf("unexpected state: %+v", got)
	}

	if err := m.DeleteStudent(ctx, "1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := m.UpdateStudent(ctx, types.Student{ID: "nope"}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDemoCheckInsAreRelativeToNow(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	demo := Demo(now)

	if got := now.Sub(*demo[0].LastCheckIn); got != 48*time.Hour {
		t.Errorf("first demo check-in: expected 48h ago, got %v", got)
	}
	if got := now.Sub(*demo[1].LastCheckIn); got <= 7*24*time.Hour {
		t.Errorf("second demo check-in should be older than a week, got %v", got)
	}
}
