package booking

import (
	"time"

	"github.com/google/uuid"
)

// LineItemRequest is the wire form of a booking line item.
type LineItemRequest struct {
	FoodItemID string `json:"food_item_id"`
	Quantity   int    `json:"quantity"`
}

// CreateBookingRequest is the payload for POST /bookings. EventDate is a
// calendar date in YYYY-MM-DD form.
type CreateBookingRequest struct {
	ClientName        string            `json:"client_name"`
	ContactEmail      string            `json:"contact_email"`
	ContactPhone      string            `json:"contact_phone"`
	EventDate         string            `json:"event_date"`
	EventType         string            `json:"event_type"`
	GuestCount        int               `json:"guest_count"`
	PricePerPlate     float64           `json:"price_per_plate"`
	ServingBoysNeeded int               `json:"serving_boys_needed"`
	Items             []LineItemRequest `json:"items"`
	SpecialRequests   string            `json:"special_requests"`
	TotalOverride     *float64          `json:"total_override"`
}

// UpdateBookingRequest is the payload for PATCH /bookings/{id}. Nil fields are
// left untouched. ClearTotalOverride removes an existing override so the
// derived total takes effect again.
type UpdateBookingRequest struct {
	ClientName         *string            `json:"client_name"`
	ContactEmail       *string            `json:"contact_email"`
	ContactPhone       *string            `json:"contact_phone"`
	EventDate          *string            `json:"event_date"`
	EventType          *string            `json:"event_type"`
	GuestCount         *int               `json:"guest_count"`
	PricePerPlate      *float64           `json:"price_per_plate"`
	ServingBoysNeeded  *int               `json:"serving_boys_needed"`
	Items              *[]LineItemRequest `json:"items"`
	SpecialRequests    *string            `json:"special_requests"`
	Status             *string            `json:"status"`
	AdvancePayment     *string            `json:"advance_payment_status"`
	FinalPayment       *string            `json:"final_payment_status"`
	TotalOverride      *float64           `json:"total_override"`
	ClearTotalOverride bool               `json:"clear_total_override"`
}

// AssignStaffRequest is the payload for POST /bookings/{id}/staff.
type AssignStaffRequest struct {
	StaffIDs []string `json:"staff_ids"`
}

// ParseEventDate parses a YYYY-MM-DD value to midnight UTC of that day.
func ParseEventDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

func parseLineItems(reqs []LineItemRequest) []LineItem {
	items := make([]LineItem, 0, len(reqs))
	for _, r := range reqs {
		id, err := uuid.Parse(r.FoodItemID)
		if err != nil {
			continue // validated before conversion
		}
		items = append(items, LineItem{FoodItemID: id, Quantity: r.Quantity})
	}
	return items
}
