package audit

import (
	"context"
	"fmt"

	"github.com/appetiteclub/apt"
)

// Recorder writes audit entries for mutating operations. A Record failure is
// the caller's degraded path: the triggering mutation already committed, so
// callers log a warning and carry on rather than roll back.
type Recorder struct {
	repo   EntryRepo
	logger apt.Logger
}

func NewRecorder(repo EntryRepo, logger apt.Logger) *Recorder {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Recorder{
		repo:   repo,
		logger: logger,
	}
}

// Record appends one audit entry.
func (r *Recorder) Record(ctx context.Context, action, entityType, entityID string, details map[string]interface{}) (*Entry, error) {
	entry := NewEntry(action, entityType, entityID, details)

	if r.repo == nil {
		return nil, fmt.Errorf("audit entry repository is not configured")
	}

	if err := r.repo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("cannot record audit entry: %w", err)
	}

	r.logger.Debug("audit",
		"action", entry.Action,
		"entity_type", entry.EntityType,
		"entity_id", entry.EntityID,
	)

	return entry, nil
}

// List returns entries newest first, optionally filtered by entity type.
func (r *Recorder) List(ctx context.Context, entityType string) ([]*Entry, error) {
	if r.repo == nil {
		return nil, fmt.Errorf("audit entry repository is not configured")
	}
	return r.repo.List(ctx, entityType)
}
