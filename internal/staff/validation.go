package staff

import "strings"

var validRoles = []string{"serving", "cooking", "supervision", "driving"}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateStaff validates a staff member before creation or update
func ValidateStaff(member *Staff) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(member.Name) == "" {
		errors = append(errors, ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if strings.TrimSpace(member.Phone) == "" {
		errors = append(errors, ValidationError{
			Field:   "phone",
			Message: "phone is required",
		})
	}

	if member.Role != "" {
		valid := false
		for _, r := range validRoles {
			if member.Role == r {
				valid = true
				break
			}
		}
		if !valid {
			errors = append(errors, ValidationError{
				Field:   "role",
				Message: "role must be one of: serving, cooking, supervision, driving",
			})
		}
	}

	return errors
}
