package staff

import (
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// Staff is a service worker assignable to bookings. Many-to-many with
// bookings through Booking.AssignedStaffIDs.
type Staff struct {
	ID        uuid.UUID `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Phone     string    `json:"phone" bson:"phone"`
	Role      string    `json:"role" bson:"role"` // serving, cooking, supervision, driving
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

func NewStaff(name, phone, role string) *Staff {
	return &Staff{
		ID:    apt.GenerateNewID(),
		Name:  name,
		Phone: phone,
		Role:  role,
	}
}

func (s *Staff) GetID() uuid.UUID {
	return s.ID
}

func (s *Staff) SetID(id uuid.UUID) {
	s.ID = id
}

func (s *Staff) ResourceType() string {
	return "staff"
}

func (s *Staff) EnsureID() {
	if s.ID == uuid.Nil {
		s.ID = apt.GenerateNewID()
	}
}

func (s *Staff) BeforeCreate() {
	s.EnsureID()
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now
}

func (s *Staff) BeforeUpdate() {
	s.UpdatedAt = time.Now()
}

// MarshalBSON custom BSON marshaling for UUID handling
func (s *Staff) MarshalBSON() ([]byte, error) {
	return bson.Marshal(bson.M{
		"_id":        s.ID.String(),
		"name":       s.Name,
		"phone":      s.Phone,
		"role":       s.Role,
		"created_at": s.CreatedAt,
		"updated_at": s.UpdatedAt,
	})
}

// UnmarshalBSON custom BSON unmarshaling for UUID handling
func (s *Staff) UnmarshalBSON(data []byte) error {
	var doc bson.M
	if err := bson.Unmarshal(data, &doc); err != nil {
		return err
	}

	if idStr, ok := doc["_id"].(string); ok && idStr != "" {
		id, err := uuid.Parse(idStr)
		if err != nil {
			return fmt.Errorf("invalid UUID format for _id: %w", err)
		}
		s.ID = id
	}

	if v, ok := doc["name"].(string); ok {
		s.Name = v
	}
	if v, ok := doc["phone"].(string); ok {
		s.Phone = v
	}
	if v, ok := doc["role"].(string); ok {
		s.Role = v
	}
	if v, ok := doc["created_at"].(time.Time); ok {
		s.CreatedAt = v
	}
	if v, ok := doc["updated_at"].(time.Time); ok {
		s.UpdatedAt = v
	}

	return nil
}
