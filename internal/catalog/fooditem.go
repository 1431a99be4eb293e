package catalog

import (
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/zaikaclub/zaika/pkg/enums/diettype"
)

// FoodItem is a dish offered by the catering kitchen. Reference data: bookings
// point at it by id, so it is deactivated rather than deleted while referenced.
type FoodItem struct {
	ID        uuid.UUID `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Category  string    `json:"category" bson:"category"` // starter, main, bread, dessert, beverage...
	DietType  string    `json:"diet_type" bson:"diet_type"`
	Price     float64   `json:"price" bson:"price"` // per plate contribution, display only
	Active    bool      `json:"active" bson:"active"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

func NewFoodItem(name, category, diet string, price float64) *FoodItem {
	return &FoodItem{
		ID:       apt.GenerateNewID(),
		Name:     name,
		Category: category,
		DietType: diet,
		Price:    price,
		Active:   true,
	}
}

func (f *FoodItem) GetID() uuid.UUID {
	return f.ID
}

func (f *FoodItem) SetID(id uuid.UUID) {
	f.ID = id
}

func (f *FoodItem) ResourceType() string {
	return "food-item"
}

func (f *FoodItem) EnsureID() {
	if f.ID == uuid.Nil {
		f.ID = apt.GenerateNewID()
	}
}

func (f *FoodItem) BeforeCreate() {
	f.EnsureID()
	now := time.Now()
	f.CreatedAt = now
	f.UpdatedAt = now
	if f.DietType == "" {
		f.DietType = diettype.Types.Veg.Code()
	}
}

func (f *FoodItem) BeforeUpdate() {
	f.UpdatedAt = time.Now()
}

// MarshalBSON custom BSON marshaling for UUID handling
func (f *FoodItem) MarshalBSON() ([]byte, error) {
	return bson.Marshal(bson.M{
		"_id":        f.ID.String(),
		"name":       f.Name,
		"category":   f.Category,
		"diet_type":  f.DietType,
		"price":      f.Price,
		"active":     f.Active,
		"created_at": f.CreatedAt,
		"updated_at": f.UpdatedAt,
	})
}

// UnmarshalBSON custom BSON unmarshaling for UUID handling
func (f *FoodItem) UnmarshalBSON(data []byte) error {
	var doc bson.M
	if err := bson.Unmarshal(data, &doc); err != nil {
		return err
	}

	if idStr, ok := doc["_id"].(string); ok && idStr != "" {
		id, err := uuid.Parse(idStr)
		if err != nil {
			return fmt.Errorf("invalid UUID format for _id: %w", err)
		}
		f.ID = id
	}

	if v, ok := doc["name"].(string); ok {
		f.Name = v
	}
	if v, ok := doc["category"].(string); ok {
		f.Category = v
	}
	if v, ok := doc["diet_type"].(string); ok {
		f.DietType = v
	}
	if v, ok := doc["price"].(float64); ok {
		f.Price = v
	}
	if v, ok := doc["active"].(bool); ok {
		f.Active = v
	}
	if v, ok := doc["created_at"].(time.Time); ok {
		f.CreatedAt = v
	}
	if v, ok := doc["updated_at"].(time.Time); ok {
		f.UpdatedAt = v
	}

	return nil
}
