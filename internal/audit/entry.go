package audit

import (
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// Actions recorded by the back office. Append-only: entries are never
// mutated or deleted by normal flow.
const (
	ActionBookingCreated  = "booking_created"
	ActionBookingUpdated  = "booking_updated"
	ActionBookingDeleted  = "booking_deleted"
	ActionStatusChanged   = "booking_status_changed"
	ActionStaffAssigned   = "booking_staff_assigned"
	ActionStaffUnassigned = "booking_staff_unassigned"
	ActionStaffCreated    = "staff_created"
	ActionStaffUpdated    = "staff_updated"
	ActionStaffDeleted    = "staff_deleted"
	ActionFoodItemCreated = "food_item_created"
	ActionFoodItemUpdated = "food_item_updated"
	ActionFoodItemDeleted = "food_item_deleted"
)

// EntityType values used by audit entries.
const (
	EntityBooking  = "booking"
	EntityStaff    = "staff"
	EntityFoodItem = "food_item"
)

// Entry is a single audit trail record: who did what to which entity, when,
// with an opaque structured payload describing the delta.
type Entry struct {
	ID         uuid.UUID              `json:"id" bson:"_id"`
	Action     string                 `json:"action" bson:"action"`
	EntityType string                 `json:"entity_type" bson:"entity_type"`
	EntityID   string                 `json:"entity_id" bson:"entity_id"`
	Details    map[string]interface{} `json:"details,omitempty" bson:"details,omitempty"`
	CreatedAt  time.Time              `json:"created_at" bson:"created_at"`
}

func NewEntry(action, entityType, entityID string, details map[string]interface{}) *Entry {
	return &Entry{
		ID:         apt.GenerateNewID(),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		CreatedAt:  time.Now(),
	}
}

func (e *Entry) GetID() uuid.UUID {
	return e.ID
}

func (e *Entry) ResourceType() string {
	return "audit-entry"
}

// MarshalBSON custom BSON marshaling for UUID handling
func (e *Entry) MarshalBSON() ([]byte, error) {
	return bson.Marshal(bson.M{
		"_id":         e.ID.String(),
		"action":      e.Action,
		"entity_type": e.EntityType,
		"entity_id":   e.EntityID,
		"details":     e.Details,
		"created_at":  e.CreatedAt,
	})
}

// UnmarshalBSON custom BSON unmarshaling for UUID handling
func (e *Entry) UnmarshalBSON(data []byte) error {
	var doc bson.M
	if err := bson.Unmarshal(data, &doc); err != nil {
		return err
	}

	if idStr, ok := doc["_id"].(string); ok && idStr != "" {
		id, err := uuid.Parse(idStr)
		if err != nil {
			return fmt.Errorf("invalid UUID format for _id: %w", err)
		}
		e.ID = id
	}

	if v, ok := doc["action"].(string); ok {
		e.Action = v
	}
	if v, ok := doc["entity_type"].(string); ok {
		e.EntityType = v
	}
	if v, ok := doc["entity_id"].(string); ok {
		e.EntityID = v
	}
	if detailsMap, ok := doc["details"].(bson.M); ok {
		e.Details = map[string]interface{}(detailsMap)
	}
	if v, ok := doc["created_at"].(time.Time); ok {
		e.CreatedAt = v
	}

	return nil
}
