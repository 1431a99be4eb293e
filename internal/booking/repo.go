package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Filter narrows List results. Zero values mean "no constraint". Query is a
// case-insensitive free-text match against client name, contact details, and
// event type.
type Filter struct {
	Status   string
	DateFrom time.Time
	DateTo   time.Time
	Query    string
}

// BookingRepo persists bookings. Get returns (nil, nil) when the booking does
// not exist.
type BookingRepo interface {
	Create(ctx context.Context, b *Booking) error
	Get(ctx context.Context, id uuid.UUID) (*Booking, error)
	Save(ctx context.Context, b *Booking) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter Filter) ([]*Booking, error)
	ListByDate(ctx context.Context, day time.Time) ([]*Booking, error)
	ListUpcoming(ctx context.Context, from time.Time, days int) ([]*Booking, error)
	ExistsWithFoodItem(ctx context.Context, foodItemID uuid.UUID) (bool, error)
}
