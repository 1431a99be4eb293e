package catalog

import (
	"context"

	"github.com/google/uuid"
)

// FoodItemRepo defines the repository interface for the food catalog
type FoodItemRepo interface {
	Create(ctx context.Context, item *FoodItem) error
	Get(ctx context.Context, id uuid.UUID) (*FoodItem, error)
	List(ctx context.Context) ([]*FoodItem, error)
	ListActive(ctx context.Context) ([]*FoodItem, error)
	Save(ctx context.Context, item *FoodItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReferenceChecker reports whether any booking line still references a food
// item. Satisfied by the booking repository.
type ReferenceChecker interface {
	ExistsWithFoodItem(ctx context.Context, foodItemID uuid.UUID) (bool, error)
}
