package catalog

import (
	"strings"

	"github.com/zaikaclub/zaika/pkg/enums/diettype"
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateFoodItem validates a food item before creation or update
func ValidateFoodItem(item *FoodItem) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(item.Name) == "" {
		errors = append(errors, ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if strings.TrimSpace(item.Category) == "" {
		errors = append(errors, ValidationError{
			Field:   "category",
			Message: "category is required",
		})
	}

	if item.DietType != "" && diettype.ByName(item.DietType) == nil {
		errors = append(errors, ValidationError{
			Field:   "diet_type",
			Message: "diet_type must be one of: veg, non-veg",
		})
	}

	if item.Price < 0 {
		errors = append(errors, ValidationError{
			Field:   "price",
			Message: "price cannot be negative",
		})
	}

	return errors
}
