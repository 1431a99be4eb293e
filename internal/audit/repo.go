package audit

import "context"

// EntryRepo defines the repository interface for audit entries.
// Append-only: there is no update or delete.
type EntryRepo interface {
	Create(ctx context.Context, entry *Entry) error
	List(ctx context.Context, entityType string) ([]*Entry, error)
}
