package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
)

func TestRecorderRecord(t *testing.T) {
	repo := NewMockEntryRepo()
	recorder := NewRecorder(repo, apt.NewNoopLogger())
	bookingID := uuid.New().String()

	entry, err := recorder.Record(context.Background(), ActionBookingCreated, EntityBooking, bookingID, map[string]interface{}{
		"client_name": "Sharma Family",
	})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	if entry.ID == uuid.Nil {
		t.Error("entry should get an ID")
	}
	if entry.Action != ActionBookingCreated {
		t.Errorf("Action = %q, want %q", entry.Action, ActionBookingCreated)
	}
	if entry.EntityID != bookingID {
		t.Errorf("EntityID = %q, want %q", entry.EntityID, bookingID)
	}
	if entry.CreatedAt.IsZero() {
		t.Error("CreatedAt should be stamped")
	}
}

func TestRecorderRecordFailure(t *testing.T) {
	repo := NewMockEntryRepo()
	repo.CreateFunc = func(ctx context.Context, entry *Entry) error {
		return errors.New("storage down")
	}
	recorder := NewRecorder(repo, apt.NewNoopLogger())

	_, err := recorder.Record(context.Background(), ActionBookingCreated, EntityBooking, uuid.New().String(), nil)
	if err == nil {
		t.Fatal("Record() should surface storage errors to the caller")
	}
}

func TestRecorderRecordWithoutRepo(t *testing.T) {
	recorder := NewRecorder(nil, apt.NewNoopLogger())

	_, err := recorder.Record(context.Background(), ActionBookingCreated, EntityBooking, uuid.New().String(), nil)
	if err == nil {
		t.Fatal("Record() without a repository should fail")
	}
}

func TestRecorderListFiltersByEntityType(t *testing.T) {
	repo := NewMockEntryRepo()
	recorder := NewRecorder(repo, apt.NewNoopLogger())
	ctx := context.Background()

	if _, err := recorder.Record(ctx, ActionBookingCreated, EntityBooking, uuid.New().String(), nil); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if _, err := recorder.Record(ctx, ActionStaffCreated, EntityStaff, uuid.New().String(), nil); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if _, err := recorder.Record(ctx, ActionStatusChanged, EntityBooking, uuid.New().String(), nil); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	all, err := recorder.List(ctx, "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("List(\"\") returned %d entries, want 3", len(all))
	}

	bookings, err := recorder.List(ctx, EntityBooking)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(bookings) != 2 {
		t.Fatalf("List(booking) returned %d entries, want 2", len(bookings))
	}
	// Newest first.
	if bookings[0].Action != ActionStatusChanged {
		t.Errorf("first entry action = %q, want newest %q", bookings[0].Action, ActionStatusChanged)
	}
}
