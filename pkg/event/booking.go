package event

import "time"

const (
	// BookingsTopic delivers booking lifecycle events to downstream consumers
	// (notification senders, calendar projections).
	BookingsTopic = "bookings.lifecycle"

	EventBookingCreated       = "booking.created"
	EventBookingUpdated       = "booking.updated"
	EventBookingStatusChanged = "booking.status_changed"
	EventBookingStaffAssigned = "booking.staff_assigned"
	EventBookingDeleted       = "booking.deleted"
)

// BookingEvent captures the minimal information downstream services need to
// react to a booking change without re-reading the store.
type BookingEvent struct {
	EventType      string    `json:"event_type"`
	OccurredAt     time.Time `json:"occurred_at"`
	BookingID      string    `json:"booking_id"`
	ClientName     string    `json:"client_name,omitempty"`
	EventDate      string    `json:"event_date,omitempty"` // YYYY-MM-DD
	EventKind      string    `json:"event_kind,omitempty"` // wedding, birthday, corporate...
	Status         string    `json:"status,omitempty"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	GuestCount     int       `json:"guest_count,omitempty"`
	TotalAmount    float64   `json:"total_amount,omitempty"`
	StaffCount     int       `json:"staff_count,omitempty"`
	Understaffed   bool      `json:"understaffed,omitempty"`
}
