package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zaikaclub/zaika/internal/staff"
)

type StaffRepo struct {
	collection *mongo.Collection
}

func NewStaffRepo(db *mongo.Database) *StaffRepo {
	return &StaffRepo{
		collection: db.Collection("staff"),
	}
}

func (r *StaffRepo) Create(ctx context.Context, s *staff.Staff) error {
	if s == nil {
		return fmt.Errorf("staff is nil")
	}

	if _, err := r.collection.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("cannot create staff: %w", err)
	}

	return nil
}

func (r *StaffRepo) Get(ctx context.Context, id uuid.UUID) (*staff.Staff, error) {
	var s staff.Staff
	err := r.collection.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&s)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get staff: %w", err)
	}
	return &s, nil
}

func (r *StaffRepo) List(ctx context.Context) ([]*staff.Staff, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot list staff: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*staff.Staff
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("cannot decode staff: %w", err)
	}

	return result, nil
}

func (r *StaffRepo) Save(ctx context.Context, s *staff.Staff) error {
	if s == nil {
		return fmt.Errorf("staff is nil")
	}

	filter := bson.M{"_id": s.ID.String()}
	update := bson.M{"$set": s}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("cannot update staff: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("staff not found")
	}

	return nil
}

func (r *StaffRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("cannot delete staff: %w", err)
	}

	if result.DeletedCount == 0 {
		return fmt.Errorf("staff not found")
	}

	return nil
}
