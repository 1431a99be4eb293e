package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/google/uuid"

	"github.com/zaikaclub/zaika/internal/audit"
	"github.com/zaikaclub/zaika/internal/catalog"
	"github.com/zaikaclub/zaika/internal/staff"
	"github.com/zaikaclub/zaika/pkg/enums/bookingstatus"
	"github.com/zaikaclub/zaika/pkg/event"
)

// Result is the outcome of a mutating lifecycle operation. Degraded means the
// booking change was persisted but its audit entry was not.
type Result struct {
	Booking  *Booking
	Degraded bool
}

// AssignResult extends Result with the staffing warning computed after an
// assignment change.
type AssignResult struct {
	Result
	Understaffed bool
}

// Lifecycle coordinates booking mutations: validation, persistence, audit
// trail, and event publication. Audit and event failures degrade, they never
// roll a persisted change back.
type Lifecycle struct {
	repo      BookingRepo
	foods     catalog.FoodItemRepo
	staff     staff.StaffRepo
	recorder  *audit.Recorder
	publisher events.Publisher
	logger    apt.Logger
}

func NewLifecycle(repo BookingRepo, foods catalog.FoodItemRepo, staffRepo staff.StaffRepo, recorder *audit.Recorder, publisher events.Publisher, logger apt.Logger) *Lifecycle {
	return &Lifecycle{
		repo:      repo,
		foods:     foods,
		staff:     staffRepo,
		recorder:  recorder,
		publisher: publisher,
		logger:    logger,
	}
}

// Create validates the request as a whole, resolves every line-item dish, and
// persists a new Pending booking.
func (l *Lifecycle) Create(ctx context.Context, req CreateBookingRequest) (*Result, error) {
	if errs := ValidateCreate(req); len(errs) > 0 {
		return nil, errs
	}

	items, errs := l.resolveItems(ctx, req.Items)
	if len(errs) > 0 {
		return nil, errs
	}

	eventDate, err := ParseEventDate(req.EventDate)
	if err != nil {
		return nil, ValidationErrors{{Field: "event_date", Message: "Event date must be in YYYY-MM-DD format"}}
	}

	b := NewBooking()
	b.ClientName = req.ClientName
	b.ContactEmail = req.ContactEmail
	b.ContactPhone = req.ContactPhone
	b.EventDate = eventDate
	b.EventType = req.EventType
	b.GuestCount = req.GuestCount
	b.PricePerPlate = req.PricePerPlate
	b.ServingBoysNeeded = req.ServingBoysNeeded
	b.Items = items
	b.SpecialRequests = req.SpecialRequests
	b.TotalOverride = req.TotalOverride
	b.BeforeCreate()

	if err := l.repo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("cannot create booking: %w", err)
	}

	degraded := l.record(ctx, audit.ActionBookingCreated, b.ID, map[string]interface{}{
		"client_name":  b.ClientName,
		"event_date":   b.EventDay(),
		"guest_count":  b.GuestCount,
		"total_amount": b.TotalAmount,
	})
	l.publish(ctx, event.EventBookingCreated, b, "")

	return &Result{Booking: b, Degraded: degraded}, nil
}

// Patch applies a partial update. Fields left nil are untouched; the total is
// recomputed whenever guests, price, or the override change.
func (l *Lifecycle) Patch(ctx context.Context, id uuid.UUID, req UpdateBookingRequest) (*Result, error) {
	if errs := ValidateUpdate(req); len(errs) > 0 {
		return nil, errs
	}

	b, err := l.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cannot get booking: %w", err)
	}
	if b == nil {
		return nil, ErrNotFound
	}

	changed := map[string]interface{}{}

	if req.ClientName != nil {
		b.ClientName = *req.ClientName
		changed["client_name"] = *req.ClientName
	}
	if req.ContactEmail != nil {
		b.ContactEmail = *req.ContactEmail
		changed["contact_email"] = *req.ContactEmail
	}
	if req.ContactPhone != nil {
		b.ContactPhone = *req.ContactPhone
		changed["contact_phone"] = *req.ContactPhone
	}
	if req.EventDate != nil {
		eventDate, err := ParseEventDate(*req.EventDate)
		if err != nil {
			return nil, ValidationErrors{{Field: "event_date", Message: "Event date must be in YYYY-MM-DD format"}}
		}
		b.EventDate = eventDate
		changed["event_date"] = *req.EventDate
	}
	if req.EventType != nil {
		b.EventType = *req.EventType
		changed["event_type"] = *req.EventType
	}
	if req.GuestCount != nil {
		b.GuestCount = *req.GuestCount
		changed["guest_count"] = *req.GuestCount
	}
	if req.PricePerPlate != nil {
		b.PricePerPlate = *req.PricePerPlate
		changed["price_per_plate"] = *req.PricePerPlate
	}
	if req.ServingBoysNeeded != nil {
		b.ServingBoysNeeded = *req.ServingBoysNeeded
		changed["serving_boys_needed"] = *req.ServingBoysNeeded
	}
	if req.SpecialRequests != nil {
		b.SpecialRequests = *req.SpecialRequests
		changed["special_requests"] = *req.SpecialRequests
	}
	if req.AdvancePayment != nil {
		b.AdvancePayment = *req.AdvancePayment
		changed["advance_payment_status"] = *req.AdvancePayment
	}
	if req.FinalPayment != nil {
		b.FinalPayment = *req.FinalPayment
		changed["final_payment_status"] = *req.FinalPayment
	}
	if req.Items != nil {
		items, errs := l.resolveItems(ctx, *req.Items)
		if len(errs) > 0 {
			return nil, errs
		}
		b.Items = items
		changed["items"] = len(items)
	}
	if req.ClearTotalOverride {
		b.TotalOverride = nil
		changed["total_override"] = nil
	} else if req.TotalOverride != nil {
		b.TotalOverride = req.TotalOverride
		changed["total_override"] = *req.TotalOverride
	}

	previous := b.Status
	if req.Status != nil && *req.Status != previous {
		if !b.CanTransition(*req.Status) {
			return nil, &InvalidTransitionError{From: previous, To: *req.Status}
		}
		if errs := transitionGuards(b, *req.Status, false); len(errs) > 0 {
			return nil, errs
		}
		b.Status = *req.Status
		changed["status"] = *req.Status
	}

	b.RecomputeTotal()
	b.BeforeUpdate()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := l.repo.Save(ctx, b); err != nil {
		return nil, fmt.Errorf("cannot update booking: %w", err)
	}

	degraded := l.record(ctx, audit.ActionBookingUpdated, b.ID, changed)
	if b.Status != previous {
		l.publish(ctx, event.EventBookingStatusChanged, b, previous)
	} else {
		l.publish(ctx, event.EventBookingUpdated, b, "")
	}

	return &Result{Booking: b, Degraded: degraded}, nil
}

// Transition moves a booking along the lifecycle. Confirm requires at least
// one guest and one line item. Complete requires the event date to have
// passed unless force is set. Terminal states reject every move.
func (l *Lifecycle) Transition(ctx context.Context, id uuid.UUID, to string, force bool) (*Result, error) {
	if bookingstatus.ByName(to) == nil {
		return nil, ValidationErrors{{Field: "status", Message: "Unknown booking status"}}
	}

	b, err := l.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cannot get booking: %w", err)
	}
	if b == nil {
		return nil, ErrNotFound
	}

	if !b.CanTransition(to) {
		return nil, &InvalidTransitionError{From: b.Status, To: to}
	}

	if errs := transitionGuards(b, to, force); len(errs) > 0 {
		return nil, errs
	}

	previous := b.Status
	b.Status = to
	b.BeforeUpdate()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := l.repo.Save(ctx, b); err != nil {
		return nil, fmt.Errorf("cannot update booking status: %w", err)
	}

	degraded := l.record(ctx, audit.ActionStatusChanged, b.ID, map[string]interface{}{
		"from":   previous,
		"to":     to,
		"forced": force,
	})
	l.publish(ctx, event.EventBookingStatusChanged, b, previous)

	return &Result{Booking: b, Degraded: degraded}, nil
}

// Delete removes a booking. The audit entry is written before removal so the
// trail survives even if the delete itself fails midway.
func (l *Lifecycle) Delete(ctx context.Context, id uuid.UUID) (*Result, error) {
	b, err := l.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cannot get booking: %w", err)
	}
	if b == nil {
		return nil, ErrNotFound
	}

	degraded := l.record(ctx, audit.ActionBookingDeleted, b.ID, map[string]interface{}{
		"client_name": b.ClientName,
		"event_date":  b.EventDay(),
		"status":      b.Status,
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := l.repo.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("cannot delete booking: %w", err)
	}

	l.publish(ctx, event.EventBookingDeleted, b, "")

	return &Result{Booking: b, Degraded: degraded}, nil
}

// AssignStaff adds one or more staff members to a booking. Assigning a
// member who is already on the crew, or listing the same member twice in
// one call, is an error. Falling short of ServingBoysNeeded is only a
// warning; nothing is persisted until every member checks out.
func (l *Lifecycle) AssignStaff(ctx context.Context, id uuid.UUID, staffIDs []uuid.UUID) (*AssignResult, error) {
	if len(staffIDs) == 0 {
		return nil, ValidationErrors{{Field: "staff_ids", Message: "At least one staff member is required"}}
	}

	b, err := l.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cannot get booking: %w", err)
	}
	if b == nil {
		return nil, ErrNotFound
	}

	names := make([]string, 0, len(staffIDs))
	seen := make(map[uuid.UUID]bool, len(staffIDs))
	for _, staffID := range staffIDs {
		member, err := l.staff.Get(ctx, staffID)
		if err != nil {
			return nil, fmt.Errorf("cannot get staff member: %w", err)
		}
		if member == nil {
			return nil, ValidationErrors{{Field: "staff_ids", Message: fmt.Sprintf("Staff member %s not found", staffID)}}
		}
		if b.HasStaff(staffID) || seen[staffID] {
			return nil, &DuplicateAssignmentError{StaffID: staffID}
		}
		seen[staffID] = true
		names = append(names, member.Name)
	}

	b.AssignedStaffIDs = append(b.AssignedStaffIDs, staffIDs...)
	b.BeforeUpdate()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := l.repo.Save(ctx, b); err != nil {
		return nil, fmt.Errorf("cannot assign staff: %w", err)
	}

	assigned := make([]string, 0, len(staffIDs))
	for _, staffID := range staffIDs {
		assigned = append(assigned, staffID.String())
	}
	degraded := l.record(ctx, audit.ActionStaffAssigned, b.ID, map[string]interface{}{
		"staff_ids":    assigned,
		"staff_names":  names,
		"staff_count":  len(b.AssignedStaffIDs),
		"understaffed": b.Understaffed(),
	})
	l.publish(ctx, event.EventBookingStaffAssigned, b, "")

	return &AssignResult{
		Result:       Result{Booking: b, Degraded: degraded},
		Understaffed: b.Understaffed(),
	}, nil
}

// UnassignStaff removes a staff member from a booking.
func (l *Lifecycle) UnassignStaff(ctx context.Context, id, staffID uuid.UUID) (*AssignResult, error) {
	b, err := l.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cannot get booking: %w", err)
	}
	if b == nil {
		return nil, ErrNotFound
	}

	if !b.HasStaff(staffID) {
		return nil, ValidationErrors{{Field: "staff_id", Message: "Staff member is not assigned to this booking"}}
	}

	kept := make([]uuid.UUID, 0, len(b.AssignedStaffIDs)-1)
	for _, sid := range b.AssignedStaffIDs {
		if sid != staffID {
			kept = append(kept, sid)
		}
	}
	b.AssignedStaffIDs = kept
	b.BeforeUpdate()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := l.repo.Save(ctx, b); err != nil {
		return nil, fmt.Errorf("cannot unassign staff: %w", err)
	}

	degraded := l.record(ctx, audit.ActionStaffUnassigned, b.ID, map[string]interface{}{
		"staff_id":     staffID.String(),
		"staff_count":  len(b.AssignedStaffIDs),
		"understaffed": b.Understaffed(),
	})
	l.publish(ctx, event.EventBookingStaffAssigned, b, "")

	return &AssignResult{
		Result:       Result{Booking: b, Degraded: degraded},
		Understaffed: b.Understaffed(),
	}, nil
}

// Get returns a single booking or ErrNotFound.
func (l *Lifecycle) Get(ctx context.Context, id uuid.UUID) (*Booking, error) {
	b, err := l.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cannot get booking: %w", err)
	}
	if b == nil {
		return nil, ErrNotFound
	}
	return b, nil
}

// List returns bookings matching the filter.
func (l *Lifecycle) List(ctx context.Context, filter Filter) ([]*Booking, error) {
	list, err := l.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("cannot list bookings: %w", err)
	}
	return list, nil
}

// transitionGuards holds the per-target preconditions beyond the state
// machine edges themselves.
func transitionGuards(b *Booking, to string, force bool) ValidationErrors {
	switch to {
	case bookingstatus.Statuses.Confirmed.Code():
		if b.GuestCount <= 0 {
			return ValidationErrors{{Field: "guest_count", Message: "Cannot confirm a booking without guests"}}
		}
		if len(b.Items) == 0 {
			return ValidationErrors{{Field: "items", Message: "Cannot confirm a booking without line items"}}
		}
	case bookingstatus.Statuses.Completed.Code():
		if !force && b.EventDate.After(time.Now().UTC()) {
			return ValidationErrors{{Field: "event_date", Message: "Cannot complete a booking before its event date"}}
		}
	}
	return nil
}

// resolveItems verifies every line-item dish exists and denormalizes its name.
func (l *Lifecycle) resolveItems(ctx context.Context, reqs []LineItemRequest) ([]LineItem, ValidationErrors) {
	var errs ValidationErrors
	items := parseLineItems(reqs)
	for i := range items {
		food, err := l.foods.Get(ctx, items[i].FoodItemID)
		if err != nil {
			errs = append(errs, ValidationError{Field: "items", Message: fmt.Sprintf("Cannot verify food item %s", items[i].FoodItemID)})
			continue
		}
		if food == nil {
			errs = append(errs, ValidationError{Field: "items", Message: fmt.Sprintf("Food item %s not found", items[i].FoodItemID)})
			continue
		}
		items[i].FoodItemName = food.Name
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return items, nil
}

// record writes an audit entry and reports degradation instead of failing.
func (l *Lifecycle) record(ctx context.Context, action string, bookingID uuid.UUID, details map[string]interface{}) bool {
	if l.recorder == nil {
		return false
	}
	if _, err := l.recorder.Record(ctx, action, audit.EntityBooking, bookingID.String(), details); err != nil {
		l.logger.Error("cannot record audit entry", "error", err, "action", action, "booking_id", bookingID.String())
		return true
	}
	return false
}

func (l *Lifecycle) publish(ctx context.Context, eventType string, b *Booking, previousStatus string) {
	if l.publisher == nil {
		return
	}
	evt := event.BookingEvent{
		EventType:      eventType,
		OccurredAt:     time.Now().UTC(),
		BookingID:      b.ID.String(),
		ClientName:     b.ClientName,
		EventDate:      b.EventDay(),
		EventKind:      b.EventType,
		Status:         b.Status,
		PreviousStatus: previousStatus,
		GuestCount:     b.GuestCount,
		TotalAmount:    b.TotalAmount,
		StaffCount:     len(b.AssignedStaffIDs),
		Understaffed:   b.Understaffed(),
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		l.logger.Error("cannot marshal booking event", "error", err, "booking_id", b.ID.String())
		return
	}
	if err := l.publisher.Publish(ctx, event.BookingsTopic, payload); err != nil {
		l.logger.Error("cannot publish booking event", "error", err, "event_type", eventType, "booking_id", b.ID.String())
	}
}
