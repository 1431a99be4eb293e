package staff

import (
	"context"

	"github.com/google/uuid"
)

// StaffRepo defines the repository interface for staff members
type StaffRepo interface {
	Create(ctx context.Context, member *Staff) error
	Get(ctx context.Context, id uuid.UUID) (*Staff, error)
	List(ctx context.Context) ([]*Staff, error)
	Save(ctx context.Context, member *Staff) error
	Delete(ctx context.Context, id uuid.UUID) error
}
