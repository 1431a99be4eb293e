package booking

import (
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/zaikaclub/zaika/pkg/enums/bookingstatus"
	"github.com/zaikaclub/zaika/pkg/enums/paymentstatus"
)

// DateLayout is the calendar-date form of EventDate used in requests,
// reports, and events. EventDate is the partition key for preparation
// aggregation: bookings sharing a date form one service day.
const DateLayout = "2006-01-02"

// LineItem is a (dish, quantity) pair within a booking. FoodItemID is the
// authoritative reference; the dish name is denormalized for display only.
type LineItem struct {
	FoodItemID uuid.UUID `json:"food_item_id" bson:"food_item_id"`
	Quantity   int       `json:"quantity" bson:"quantity"`

	// Denormalized data for display purposes
	FoodItemName string `json:"food_item_name,omitempty" bson:"food_item_name,omitempty"`
}

// Booking is the aggregate root for a catered event: client contact details,
// the service day, ordered dishes, payment flags, and assigned staff.
type Booking struct {
	ID                uuid.UUID   `json:"id" bson:"_id"`
	ClientName        string      `json:"client_name" bson:"client_name"`
	ContactEmail      string      `json:"contact_email" bson:"contact_email"`
	ContactPhone      string      `json:"contact_phone" bson:"contact_phone"`
	EventDate         time.Time   `json:"event_date" bson:"event_date"` // midnight UTC of the service day
	EventType         string      `json:"event_type" bson:"event_type"`
	GuestCount        int         `json:"guest_count" bson:"guest_count"`
	PricePerPlate     float64     `json:"price_per_plate" bson:"price_per_plate"`
	ServingBoysNeeded int         `json:"serving_boys_needed" bson:"serving_boys_needed"`
	Items             []LineItem  `json:"items" bson:"items"`
	Status            string      `json:"status" bson:"status"`
	AdvancePayment    string      `json:"advance_payment_status" bson:"advance_payment_status"`
	FinalPayment      string      `json:"final_payment_status" bson:"final_payment_status"`
	TotalAmount       float64     `json:"total_amount" bson:"total_amount"`
	TotalOverride     *float64    `json:"total_override,omitempty" bson:"total_override,omitempty"`
	AssignedStaffIDs  []uuid.UUID `json:"assigned_staff_ids" bson:"assigned_staff_ids"`
	SpecialRequests   string      `json:"special_requests,omitempty" bson:"special_requests,omitempty"`
	CreatedAt         time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at" bson:"updated_at"`
}

func NewBooking() *Booking {
	return &Booking{
		ID:             apt.GenerateNewID(),
		Status:         bookingstatus.Statuses.Pending.Code(),
		AdvancePayment: paymentstatus.Statuses.Pending.Code(),
		FinalPayment:   paymentstatus.Statuses.Pending.Code(),
	}
}

func (b *Booking) GetID() uuid.UUID {
	return b.ID
}

func (b *Booking) SetID(id uuid.UUID) {
	b.ID = id
}

func (b *Booking) ResourceType() string {
	return "booking"
}

func (b *Booking) EnsureID() {
	if b.ID == uuid.Nil {
		b.ID = apt.GenerateNewID()
	}
}

func (b *Booking) BeforeCreate() {
	b.EnsureID()
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
	if b.Status == "" {
		b.Status = bookingstatus.Statuses.Pending.Code()
	}
	if b.AdvancePayment == "" {
		b.AdvancePayment = paymentstatus.Statuses.Pending.Code()
	}
	if b.FinalPayment == "" {
		b.FinalPayment = paymentstatus.Statuses.Pending.Code()
	}
	b.RecomputeTotal()
}

func (b *Booking) BeforeUpdate() {
	b.UpdatedAt = time.Now()
}

// RecomputeTotal enforces TotalAmount == GuestCount * PricePerPlate unless an
// explicit override is set.
func (b *Booking) RecomputeTotal() {
	if b.TotalOverride != nil {
		b.TotalAmount = *b.TotalOverride
		return
	}
	b.TotalAmount = float64(b.GuestCount) * b.PricePerPlate
}

// EventDay returns the service day in YYYY-MM-DD form.
func (b *Booking) EventDay() string {
	if b.EventDate.IsZero() {
		return ""
	}
	return b.EventDate.Format(DateLayout)
}

// CanTransition reports whether the lifecycle allows moving to the given
// status. Edges: pending -> confirmed -> completed, cancelled reachable from
// pending or confirmed. Completed and cancelled are terminal.
func (b *Booking) CanTransition(to string) bool {
	switch b.Status {
	case bookingstatus.Statuses.Pending.Code():
		return to == bookingstatus.Statuses.Confirmed.Code() ||
			to == bookingstatus.Statuses.Cancelled.Code()
	case bookingstatus.Statuses.Confirmed.Code():
		return to == bookingstatus.Statuses.Completed.Code() ||
			to == bookingstatus.Statuses.Cancelled.Code()
	default:
		return false
	}
}

// IsCancelled reports whether the booking will ship no food.
func (b *Booking) IsCancelled() bool {
	return b.Status == bookingstatus.Statuses.Cancelled.Code()
}

// HasStaff reports whether the staff member is already assigned.
func (b *Booking) HasStaff(staffID uuid.UUID) bool {
	for _, id := range b.AssignedStaffIDs {
		if id == staffID {
			return true
		}
	}
	return false
}

// Understaffed reports whether assigned staff falls short of declared need.
// A warning condition, never a blocking one.
func (b *Booking) Understaffed() bool {
	return len(b.AssignedStaffIDs) < b.ServingBoysNeeded
}

// MarshalBSON custom BSON marshaling for UUID handling
func (b *Booking) MarshalBSON() ([]byte, error) {
	items := make([]bson.M, len(b.Items))
	for i, item := range b.Items {
		items[i] = bson.M{
			"food_item_id":   item.FoodItemID.String(),
			"quantity":       item.Quantity,
			"food_item_name": item.FoodItemName,
		}
	}

	staffIDs := make([]string, len(b.AssignedStaffIDs))
	for i, id := range b.AssignedStaffIDs {
		staffIDs[i] = id.String()
	}

	doc := bson.M{
		"_id":                    b.ID.String(),
		"client_name":            b.ClientName,
		"contact_email":          b.ContactEmail,
		"contact_phone":          b.ContactPhone,
		"event_date":             b.EventDate,
		"event_type":             b.EventType,
		"guest_count":            b.GuestCount,
		"price_per_plate":        b.PricePerPlate,
		"serving_boys_needed":    b.ServingBoysNeeded,
		"items":                  items,
		"status":                 b.Status,
		"advance_payment_status": b.AdvancePayment,
		"final_payment_status":   b.FinalPayment,
		"total_amount":           b.TotalAmount,
		"assigned_staff_ids":     staffIDs,
		"special_requests":       b.SpecialRequests,
		"created_at":             b.CreatedAt,
		"updated_at":             b.UpdatedAt,
	}
	if b.TotalOverride != nil {
		doc["total_override"] = *b.TotalOverride
	}

	return bson.Marshal(doc)
}

// UnmarshalBSON custom BSON unmarshaling for UUID handling
func (b *Booking) UnmarshalBSON(data []byte) error {
	var doc bson.M
	if err := bson.Unmarshal(data, &doc); err != nil {
		return err
	}

	if idStr, ok := doc["_id"].(string); ok && idStr != "" {
		id, err := uuid.Parse(idStr)
		if err != nil {
			return fmt.Errorf("invalid UUID format for _id: %w", err)
		}
		b.ID = id
	}

	if v, ok := doc["client_name"].(string); ok {
		b.ClientName = v
	}
	if v, ok := doc["contact_email"].(string); ok {
		b.ContactEmail = v
	}
	if v, ok := doc["contact_phone"].(string); ok {
		b.ContactPhone = v
	}
	if v, ok := doc["event_date"].(time.Time); ok {
		b.EventDate = v
	}
	if v, ok := doc["event_type"].(string); ok {
		b.EventType = v
	}

	if v, ok := doc["guest_count"].(int32); ok {
		b.GuestCount = int(v)
	} else if v, ok := doc["guest_count"].(int64); ok {
		b.GuestCount = int(v)
	}

	if v, ok := doc["price_per_plate"].(float64); ok {
		b.PricePerPlate = v
	}

	if v, ok := doc["serving_boys_needed"].(int32); ok {
		b.ServingBoysNeeded = int(v)
	} else if v, ok := doc["serving_boys_needed"].(int64); ok {
		b.ServingBoysNeeded = int(v)
	}

	if itemsArr, ok := doc["items"].(bson.A); ok {
		b.Items = make([]LineItem, 0, len(itemsArr))
		for _, raw := range itemsArr {
			itemMap, ok := raw.(bson.M)
			if !ok {
				continue
			}
			var item LineItem
			if idStr, ok := itemMap["food_item_id"].(string); ok {
				if id, err := uuid.Parse(idStr); err == nil {
					item.FoodItemID = id
				}
			}
			if v, ok := itemMap["quantity"].(int32); ok {
				item.Quantity = int(v)
			} else if v, ok := itemMap["quantity"].(int64); ok {
				item.Quantity = int(v)
			}
			if v, ok := itemMap["food_item_name"].(string); ok {
				item.FoodItemName = v
			}
			b.Items = append(b.Items, item)
		}
	}

	if v, ok := doc["status"].(string); ok {
		b.Status = v
	}
	if v, ok := doc["advance_payment_status"].(string); ok {
		b.AdvancePayment = v
	}
	if v, ok := doc["final_payment_status"].(string); ok {
		b.FinalPayment = v
	}
	if v, ok := doc["total_amount"].(float64); ok {
		b.TotalAmount = v
	}
	if v, ok := doc["total_override"].(float64); ok {
		b.TotalOverride = &v
	}

	if staffArr, ok := doc["assigned_staff_ids"].(bson.A); ok {
		b.AssignedStaffIDs = make([]uuid.UUID, 0, len(staffArr))
		for _, raw := range staffArr {
			if idStr, ok := raw.(string); ok {
				if id, err := uuid.Parse(idStr); err == nil {
					b.AssignedStaffIDs = append(b.AssignedStaffIDs, id)
				}
			}
		}
	}

	if v, ok := doc["special_requests"].(string); ok {
		b.SpecialRequests = v
	}
	if v, ok := doc["created_at"].(time.Time); ok {
		b.CreatedAt = v
	}
	if v, ok := doc["updated_at"].(time.Time); ok {
		b.UpdatedAt = v
	}

	return nil
}
