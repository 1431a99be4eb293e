package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zaikaclub/zaika/internal/audit"
)

// AuditRepo is append-only: entries are never updated or removed.
type AuditRepo struct {
	collection *mongo.Collection
}

func NewAuditRepo(db *mongo.Database) *AuditRepo {
	return &AuditRepo{
		collection: db.Collection("audit_entries"),
	}
}

func (r *AuditRepo) Create(ctx context.Context, entry *audit.Entry) error {
	if entry == nil {
		return fmt.Errorf("audit entry is nil")
	}

	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("cannot create audit entry: %w", err)
	}

	return nil
}

func (r *AuditRepo) List(ctx context.Context, entityType string) ([]*audit.Entry, error) {
	query := bson.M{}
	if entityType != "" {
		query["entity_type"] = entityType
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot list audit entries: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*audit.Entry
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("cannot decode audit entries: %w", err)
	}

	return result, nil
}
