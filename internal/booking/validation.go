package booking

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zaikaclub/zaika/pkg/enums/bookingstatus"
	"github.com/zaikaclub/zaika/pkg/enums/paymentstatus"
)

// Contact fields are optional but must be well formed when present.
var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9][0-9\s\-()]{5,19}$`)
)

// ValidateCreate checks a CreateBookingRequest and returns all problems found.
func ValidateCreate(req CreateBookingRequest) ValidationErrors {
	var errs ValidationErrors

	if strings.TrimSpace(req.ClientName) == "" {
		errs = append(errs, ValidationError{Field: "client_name", Message: "Client name is required"})
	}
	if req.EventDate == "" {
		errs = append(errs, ValidationError{Field: "event_date", Message: "Event date is required"})
	} else if _, err := time.Parse(DateLayout, req.EventDate); err != nil {
		errs = append(errs, ValidationError{Field: "event_date", Message: "Event date must be in YYYY-MM-DD format"})
	}
	if req.ContactEmail != "" && !emailPattern.MatchString(req.ContactEmail) {
		errs = append(errs, ValidationError{Field: "contact_email", Message: "Contact email is not a valid email address"})
	}
	if req.ContactPhone != "" && !phonePattern.MatchString(req.ContactPhone) {
		errs = append(errs, ValidationError{Field: "contact_phone", Message: "Contact phone is not a valid phone number"})
	}
	if req.GuestCount <= 0 {
		errs = append(errs, ValidationError{Field: "guest_count", Message: "Guest count must be greater than zero"})
	}
	if req.PricePerPlate < 0 {
		errs = append(errs, ValidationError{Field: "price_per_plate", Message: "Price per plate cannot be negative"})
	}
	if req.ServingBoysNeeded < 0 {
		errs = append(errs, ValidationError{Field: "serving_boys_needed", Message: "Serving staff needed cannot be negative"})
	}
	if req.TotalOverride != nil && *req.TotalOverride < 0 {
		errs = append(errs, ValidationError{Field: "total_override", Message: "Total override cannot be negative"})
	}
	errs = append(errs, validateLineItems(req.Items)...)

	return errs
}

// ValidateUpdate checks the provided fields of an UpdateBookingRequest.
func ValidateUpdate(req UpdateBookingRequest) ValidationErrors {
	var errs ValidationErrors

	if req.ClientName != nil && strings.TrimSpace(*req.ClientName) == "" {
		errs = append(errs, ValidationError{Field: "client_name", Message: "Client name cannot be empty"})
	}
	if req.EventDate != nil {
		if _, err := time.Parse(DateLayout, *req.EventDate); err != nil {
			errs = append(errs, ValidationError{Field: "event_date", Message: "Event date must be in YYYY-MM-DD format"})
		}
	}
	if req.ContactEmail != nil && *req.ContactEmail != "" && !emailPattern.MatchString(*req.ContactEmail) {
		errs = append(errs, ValidationError{Field: "contact_email", Message: "Contact email is not a valid email address"})
	}
	if req.ContactPhone != nil && *req.ContactPhone != "" && !phonePattern.MatchString(*req.ContactPhone) {
		errs = append(errs, ValidationError{Field: "contact_phone", Message: "Contact phone is not a valid phone number"})
	}
	if req.GuestCount != nil && *req.GuestCount <= 0 {
		errs = append(errs, ValidationError{Field: "guest_count", Message: "Guest count must be greater than zero"})
	}
	if req.PricePerPlate != nil && *req.PricePerPlate < 0 {
		errs = append(errs, ValidationError{Field: "price_per_plate", Message: "Price per plate cannot be negative"})
	}
	if req.ServingBoysNeeded != nil && *req.ServingBoysNeeded < 0 {
		errs = append(errs, ValidationError{Field: "serving_boys_needed", Message: "Serving staff needed cannot be negative"})
	}
	if req.TotalOverride != nil && *req.TotalOverride < 0 {
		errs = append(errs, ValidationError{Field: "total_override", Message: "Total override cannot be negative"})
	}
	if req.TotalOverride != nil && req.ClearTotalOverride {
		errs = append(errs, ValidationError{Field: "total_override", Message: "Cannot set and clear the total override in the same request"})
	}
	if req.Status != nil && bookingstatus.ByName(*req.Status) == nil {
		errs = append(errs, ValidationError{Field: "status", Message: "Unknown booking status"})
	}
	if req.AdvancePayment != nil && paymentstatus.ByName(*req.AdvancePayment) == nil {
		errs = append(errs, ValidationError{Field: "advance_payment_status", Message: "Invalid payment status"})
	}
	if req.FinalPayment != nil && paymentstatus.ByName(*req.FinalPayment) == nil {
		errs = append(errs, ValidationError{Field: "final_payment_status", Message: "Invalid payment status"})
	}
	if req.Items != nil {
		errs = append(errs, validateLineItems(*req.Items)...)
	}

	return errs
}

func validateLineItems(items []LineItemRequest) ValidationErrors {
	var errs ValidationErrors
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if _, err := uuid.Parse(item.FoodItemID); err != nil {
			errs = append(errs, ValidationError{Field: "items", Message: "Invalid food item ID format"})
			continue
		}
		if item.Quantity <= 0 {
			errs = append(errs, ValidationError{Field: "items", Message: "Line item quantity must be greater than zero"})
		}
		if seen[item.FoodItemID] {
			errs = append(errs, ValidationError{Field: "items", Message: "Duplicate food item in line items"})
		}
		seen[item.FoodItemID] = true
	}
	return errs
}
