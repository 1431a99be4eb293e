package booking

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNotFound signals that the requested booking does not exist.
var ErrNotFound = errors.New("booking not found")

// ValidationError describes a single bad field in a request.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors aggregates field-level problems so the handler can return
// them all at once.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s: %s", ve[0].Field, ve[0].Message)
}

// InvalidTransitionError is returned when a lifecycle move is not an allowed
// edge of the booking state machine.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition booking from %s to %s", e.From, e.To)
}

// DuplicateAssignmentError is returned when a staff member is assigned to a
// booking they already serve.
type DuplicateAssignmentError struct {
	StaffID uuid.UUID
}

func (e *DuplicateAssignmentError) Error() string {
	return fmt.Sprintf("staff %s is already assigned to this booking", e.StaffID)
}
