package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"

	"github.com/zaikaclub/zaika/internal/audit"
	"github.com/zaikaclub/zaika/internal/catalog"
	"github.com/zaikaclub/zaika/internal/staff"
)

type lifecycleFixture struct {
	lifecycle *Lifecycle
	repo      *MockBookingRepo
	foods     *MockFoodItemRepo
	staff     *MockStaffRepo
	entries   *MockEntryRepo
	publisher *MockPublisher
}

func newLifecycleFixture() *lifecycleFixture {
	repo := NewMockBookingRepo()
	foods := NewMockFoodItemRepo()
	staffRepo := NewMockStaffRepo()
	entries := NewMockEntryRepo()
	publisher := NewMockPublisher()
	recorder := audit.NewRecorder(entries, apt.NewNoopLogger())

	return &lifecycleFixture{
		lifecycle: NewLifecycle(repo, foods, staffRepo, recorder, publisher, apt.NewNoopLogger()),
		repo:      repo,
		foods:     foods,
		staff:     staffRepo,
		entries:   entries,
		publisher: publisher,
	}
}

func (f *lifecycleFixture) addDish(name, category string) *catalog.FoodItem {
	item := catalog.NewFoodItem(name, category, "veg", 0)
	f.foods.Add(item)
	return item
}

func TestLifecycleCreate(t *testing.T) {
	f := newLifecycleFixture()
	dish := f.addDish("Paneer Tikka", "Starters")

	req := validCreateRequest()
	req.Items = []LineItemRequest{{FoodItemID: dish.ID.String(), Quantity: 3}}

	res, err := f.lifecycle.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	b := res.Booking
	if b.Status != "pending" {
		t.Errorf("Status = %q, want pending", b.Status)
	}
	if b.TotalAmount != 150*650.0 {
		t.Errorf("TotalAmount = %v, want %v", b.TotalAmount, 150*650.0)
	}
	if b.Items[0].FoodItemName != "Paneer Tikka" {
		t.Errorf("FoodItemName = %q, want denormalized dish name", b.Items[0].FoodItemName)
	}
	if res.Degraded {
		t.Error("Degraded = true, want false")
	}

	stored, _ := f.repo.Get(context.Background(), b.ID)
	if stored == nil {
		t.Fatal("booking was not persisted")
	}

	entries := f.entries.Entries()
	if len(entries) != 1 || entries[0].Action != audit.ActionBookingCreated {
		t.Errorf("audit entries = %v, want one booking_created", entries)
	}
	if msgs := f.publisher.Messages(); len(msgs) != 1 {
		t.Errorf("published %d events, want 1", len(msgs))
	}
}

func TestLifecycleCreateRejectsUnknownDish(t *testing.T) {
	f := newLifecycleFixture()

	req := validCreateRequest()
	req.Items = []LineItemRequest{{FoodItemID: uuid.New().String(), Quantity: 1}}

	_, err := f.lifecycle.Create(context.Background(), req)

	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("Create() error = %v, want ValidationErrors", err)
	}
	if len(f.entries.Entries()) != 0 {
		t.Error("rejected create should not write audit entries")
	}
}

func TestLifecycleCreateOverride(t *testing.T) {
	f := newLifecycleFixture()
	override := 40000.0

	req := validCreateRequest()
	req.Items = nil
	req.TotalOverride = &override

	res, err := f.lifecycle.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if res.Booking.TotalAmount != 40000 {
		t.Errorf("TotalAmount = %v, want override 40000", res.Booking.TotalAmount)
	}
}

func TestLifecycleCreateDegradedWhenAuditFails(t *testing.T) {
	f := newLifecycleFixture()
	f.entries.CreateFunc = func(ctx context.Context, entry *audit.Entry) error {
		return errors.New("audit store down")
	}

	req := validCreateRequest()
	req.Items = nil

	res, err := f.lifecycle.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create() error = %v, audit failure must not fail the operation", err)
	}
	if !res.Degraded {
		t.Error("Degraded = false, want true when audit write fails")
	}

	stored, _ := f.repo.Get(context.Background(), res.Booking.ID)
	if stored == nil {
		t.Error("booking must stay persisted when audit write fails")
	}
}

func TestLifecyclePatch(t *testing.T) {
	f := newLifecycleFixture()

	req := validCreateRequest()
	req.Items = nil
	res, err := f.lifecycle.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	guests := 200
	patched, err := f.lifecycle.Patch(context.Background(), res.Booking.ID, UpdateBookingRequest{
		GuestCount: &guests,
	})
	if err != nil {
		t.Fatalf("Patch() error = %v", err)
	}

	if patched.Booking.GuestCount != 200 {
		t.Errorf("GuestCount = %d, want 200", patched.Booking.GuestCount)
	}
	if patched.Booking.TotalAmount != 200*650.0 {
		t.Errorf("TotalAmount = %v, want recomputed %v", patched.Booking.TotalAmount, 200*650.0)
	}
}

func TestLifecyclePatchClearsOverride(t *testing.T) {
	f := newLifecycleFixture()
	override := 1000.0

	req := validCreateRequest()
	req.Items = nil
	req.TotalOverride = &override
	res, err := f.lifecycle.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	patched, err := f.lifecycle.Patch(context.Background(), res.Booking.ID, UpdateBookingRequest{
		ClearTotalOverride: true,
	})
	if err != nil {
		t.Fatalf("Patch() error = %v", err)
	}
	if patched.Booking.TotalOverride != nil {
		t.Error("TotalOverride should be cleared")
	}
	if patched.Booking.TotalAmount != 150*650.0 {
		t.Errorf("TotalAmount = %v, want derived %v", patched.Booking.TotalAmount, 150*650.0)
	}
}

func TestLifecyclePatchStatus(t *testing.T) {
	f := newLifecycleFixture()
	dish := f.addDish("Veg Spring Rolls", "Starters")

	req := validCreateRequest()
	req.Items = []LineItemRequest{{FoodItemID: dish.ID.String(), Quantity: 1}}
	res, err := f.lifecycle.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	confirmed := "confirmed"
	patched, err := f.lifecycle.Patch(context.Background(), res.Booking.ID, UpdateBookingRequest{
		Status: &confirmed,
	})
	if err != nil {
		t.Fatalf("Patch() error = %v", err)
	}
	if patched.Booking.Status != "confirmed" {
		t.Errorf("Status = %q, want confirmed", patched.Booking.Status)
	}

	completedViaPatch := "pending"
	_, err = f.lifecycle.Patch(context.Background(), res.Booking.ID, UpdateBookingRequest{
		Status: &completedViaPatch,
	})
	var transition *InvalidTransitionError
	if !errors.As(err, &transition) {
		t.Errorf("backwards patch error = %v, want InvalidTransitionError", err)
	}
}

func TestLifecyclePatchNotFound(t *testing.T) {
	f := newLifecycleFixture()

	_, err := f.lifecycle.Patch(context.Background(), uuid.New(), UpdateBookingRequest{})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Patch() error = %v, want ErrNotFound", err)
	}
}

func TestLifecycleTransition(t *testing.T) {
	f := newLifecycleFixture()
	dish := f.addDish("Chicken Biryani", "Mains")

	create := func(t *testing.T) uuid.UUID {
		t.Helper()
		req := validCreateRequest()
		req.EventDate = "2020-01-15" // already past, completion allowed
		req.Items = []LineItemRequest{{FoodItemID: dish.ID.String(), Quantity: 1}}
		res, err := f.lifecycle.Create(context.Background(), req)
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		return res.Booking.ID
	}

	t.Run("confirmThenComplete", func(t *testing.T) {
		id := create(t)

		res, err := f.lifecycle.Transition(context.Background(), id, "confirmed", false)
		if err != nil {
			t.Fatalf("confirm error = %v", err)
		}
		if res.Booking.Status != "confirmed" {
			t.Errorf("Status = %q, want confirmed", res.Booking.Status)
		}

		res, err = f.lifecycle.Transition(context.Background(), id, "completed", false)
		if err != nil {
			t.Fatalf("complete error = %v", err)
		}
		if res.Booking.Status != "completed" {
			t.Errorf("Status = %q, want completed", res.Booking.Status)
		}
	})

	t.Run("terminalRejectsEverything", func(t *testing.T) {
		id := create(t)
		if _, err := f.lifecycle.Transition(context.Background(), id, "cancelled", false); err != nil {
			t.Fatalf("cancel error = %v", err)
		}

		_, err := f.lifecycle.Transition(context.Background(), id, "confirmed", false)
		var transition *InvalidTransitionError
		if !errors.As(err, &transition) {
			t.Fatalf("error = %v, want InvalidTransitionError", err)
		}
		if transition.From != "cancelled" || transition.To != "confirmed" {
			t.Errorf("InvalidTransitionError = %+v", transition)
		}
	})

	t.Run("pendingCannotComplete", func(t *testing.T) {
		id := create(t)

		_, err := f.lifecycle.Transition(context.Background(), id, "completed", false)
		var transition *InvalidTransitionError
		if !errors.As(err, &transition) {
			t.Errorf("error = %v, want InvalidTransitionError", err)
		}
	})

	t.Run("unknownStatus", func(t *testing.T) {
		id := create(t)

		_, err := f.lifecycle.Transition(context.Background(), id, "archived", false)
		var verrs ValidationErrors
		if !errors.As(err, &verrs) {
			t.Errorf("error = %v, want ValidationErrors", err)
		}
	})
}

func TestLifecycleConfirmGuards(t *testing.T) {
	f := newLifecycleFixture()

	req := validCreateRequest()
	req.Items = nil
	res, err := f.lifecycle.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, err = f.lifecycle.Transition(context.Background(), res.Booking.ID, "confirmed", false)
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("error = %v, want ValidationErrors for missing line items", err)
	}
}

func TestLifecycleCompleteBeforeEventDate(t *testing.T) {
	f := newLifecycleFixture()
	dish := f.addDish("Dal Makhani", "Mains")

	req := validCreateRequest()
	req.EventDate = time.Now().UTC().AddDate(0, 0, 30).Format(DateLayout)
	req.Items = []LineItemRequest{{FoodItemID: dish.ID.String(), Quantity: 1}}
	res, err := f.lifecycle.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := f.lifecycle.Transition(context.Background(), res.Booking.ID, "confirmed", false); err != nil {
		t.Fatalf("confirm error = %v", err)
	}

	_, err = f.lifecycle.Transition(context.Background(), res.Booking.ID, "completed", false)
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("error = %v, want ValidationErrors before event date", err)
	}

	forced, err := f.lifecycle.Transition(context.Background(), res.Booking.ID, "completed", true)
	if err != nil {
		t.Fatalf("forced complete error = %v", err)
	}
	if forced.Booking.Status != "completed" {
		t.Errorf("Status = %q, want completed", forced.Booking.Status)
	}
}

func TestLifecycleDelete(t *testing.T) {
	f := newLifecycleFixture()

	req := validCreateRequest()
	req.Items = nil
	res, err := f.lifecycle.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := f.lifecycle.Delete(context.Background(), res.Booking.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	stored, _ := f.repo.Get(context.Background(), res.Booking.ID)
	if stored != nil {
		t.Error("booking should be removed")
	}

	entries := f.entries.Entries()
	if len(entries) != 2 || entries[1].Action != audit.ActionBookingDeleted {
		t.Errorf("audit trail = %v, want booking_created then booking_deleted", entries)
	}
}

func TestLifecycleDeleteAuditsBeforeRemoval(t *testing.T) {
	f := newLifecycleFixture()

	req := validCreateRequest()
	req.Items = nil
	res, err := f.lifecycle.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	var auditedBeforeDelete bool
	f.repo.DeleteFunc = func(ctx context.Context, id uuid.UUID) error {
		for _, e := range f.entries.Entries() {
			if e.Action == audit.ActionBookingDeleted {
				auditedBeforeDelete = true
			}
		}
		return errors.New("storage failure")
	}

	if _, err := f.lifecycle.Delete(context.Background(), res.Booking.ID); err == nil {
		t.Fatal("Delete() should surface the storage failure")
	}
	if !auditedBeforeDelete {
		t.Error("audit entry must be written before the delete is attempted")
	}
}

func TestLifecycleDeleteNotFound(t *testing.T) {
	f := newLifecycleFixture()

	_, err := f.lifecycle.Delete(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}

func TestLifecycleAssignStaff(t *testing.T) {
	f := newLifecycleFixture()
	member := staff.NewStaff("Ramesh", "+91 98765 00001", "serving")
	f.staff.Add(member)

	req := validCreateRequest()
	req.Items = nil
	req.ServingBoysNeeded = 2
	res, err := f.lifecycle.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	assigned, err := f.lifecycle.AssignStaff(context.Background(), res.Booking.ID, []uuid.UUID{member.ID})
	if err != nil {
		t.Fatalf("AssignStaff() error = %v", err)
	}
	if !assigned.Understaffed {
		t.Error("Understaffed = false, want true with 1 of 2 assigned")
	}
	if !assigned.Booking.HasStaff(member.ID) {
		t.Error("staff member should be assigned")
	}

	_, err = f.lifecycle.AssignStaff(context.Background(), res.Booking.ID, []uuid.UUID{member.ID})
	var duplicate *DuplicateAssignmentError
	if !errors.As(err, &duplicate) {
		t.Fatalf("second assign error = %v, want DuplicateAssignmentError", err)
	}
	if duplicate.StaffID != member.ID {
		t.Errorf("DuplicateAssignmentError.StaffID = %v, want %v", duplicate.StaffID, member.ID)
	}
}

func TestLifecycleAssignStaffBatch(t *testing.T) {
	f := newLifecycleFixture()
	first := staff.NewStaff("Anil", "+91 98765 00003", "serving")
	second := staff.NewStaff("Mohan", "+91 98765 00004", "serving")
	f.staff.Add(first)
	f.staff.Add(second)

	req := validCreateRequest()
	req.Items = nil
	req.ServingBoysNeeded = 3
	res, err := f.lifecycle.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	assigned, err := f.lifecycle.AssignStaff(context.Background(), res.Booking.ID, []uuid.UUID{first.ID, second.ID})
	if err != nil {
		t.Fatalf("AssignStaff() error = %v", err)
	}
	if !assigned.Understaffed {
		t.Error("Understaffed = false, want true with 2 of 3 assigned")
	}
	if !assigned.Booking.HasStaff(first.ID) || !assigned.Booking.HasStaff(second.ID) {
		t.Error("both staff members should be assigned")
	}
}

func TestLifecycleAssignStaffDuplicateInRequest(t *testing.T) {
	f := newLifecycleFixture()
	member := staff.NewStaff("Lata", "+91 98765 00005", "cooking")
	f.staff.Add(member)

	req := validCreateRequest()
	req.Items = nil
	res, err := f.lifecycle.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, err = f.lifecycle.AssignStaff(context.Background(), res.Booking.ID, []uuid.UUID{member.ID, member.ID})
	var duplicate *DuplicateAssignmentError
	if !errors.As(err, &duplicate) {
		t.Fatalf("error = %v, want DuplicateAssignmentError", err)
	}

	fresh, err := f.lifecycle.Get(context.Background(), res.Booking.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if fresh.HasStaff(member.ID) {
		t.Error("rejected batch must not be partially applied")
	}
}

func TestLifecycleAssignStaffUnknownMember(t *testing.T) {
	f := newLifecycleFixture()

	req := validCreateRequest()
	req.Items = nil
	res, err := f.lifecycle.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, err = f.lifecycle.AssignStaff(context.Background(), res.Booking.ID, []uuid.UUID{uuid.New()})
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Errorf("error = %v, want ValidationErrors for unknown staff", err)
	}
}

func TestLifecycleUnassignStaff(t *testing.T) {
	f := newLifecycleFixture()
	member := staff.NewStaff("Suresh", "+91 98765 00002", "serving")
	f.staff.Add(member)

	req := validCreateRequest()
	req.Items = nil
	req.ServingBoysNeeded = 1
	res, err := f.lifecycle.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := f.lifecycle.AssignStaff(context.Background(), res.Booking.ID, []uuid.UUID{member.ID}); err != nil {
		t.Fatalf("AssignStaff() error = %v", err)
	}

	unassigned, err := f.lifecycle.UnassignStaff(context.Background(), res.Booking.ID, member.ID)
	if err != nil {
		t.Fatalf("UnassignStaff() error = %v", err)
	}
	if unassigned.Booking.HasStaff(member.ID) {
		t.Error("staff member should be removed")
	}
	if !unassigned.Understaffed {
		t.Error("Understaffed = false, want true after removing the only member")
	}

	_, err = f.lifecycle.UnassignStaff(context.Background(), res.Booking.ID, member.ID)
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Errorf("second unassign error = %v, want ValidationErrors", err)
	}
}
