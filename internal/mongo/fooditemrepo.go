package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zaikaclub/zaika/internal/catalog"
)

type FoodItemRepo struct {
	collection *mongo.Collection
}

func NewFoodItemRepo(db *mongo.Database) *FoodItemRepo {
	return &FoodItemRepo{
		collection: db.Collection("food_items"),
	}
}

func (r *FoodItemRepo) Create(ctx context.Context, item *catalog.FoodItem) error {
	if item == nil {
		return fmt.Errorf("food item is nil")
	}

	if _, err := r.collection.InsertOne(ctx, item); err != nil {
		return fmt.Errorf("cannot create food item: %w", err)
	}

	return nil
}

func (r *FoodItemRepo) Get(ctx context.Context, id uuid.UUID) (*catalog.FoodItem, error) {
	var item catalog.FoodItem
	err := r.collection.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&item)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get food item: %w", err)
	}
	return &item, nil
}

func (r *FoodItemRepo) List(ctx context.Context) ([]*catalog.FoodItem, error) {
	return r.find(ctx, bson.M{})
}

func (r *FoodItemRepo) ListActive(ctx context.Context) ([]*catalog.FoodItem, error) {
	return r.find(ctx, bson.M{"active": true})
}

func (r *FoodItemRepo) Save(ctx context.Context, item *catalog.FoodItem) error {
	if item == nil {
		return fmt.Errorf("food item is nil")
	}

	filter := bson.M{"_id": item.ID.String()}
	update := bson.M{"$set": item}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("cannot update food item: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("food item not found")
	}

	return nil
}

func (r *FoodItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("cannot delete food item: %w", err)
	}

	if result.DeletedCount == 0 {
		return fmt.Errorf("food item not found")
	}

	return nil
}

func (r *FoodItemRepo) find(ctx context.Context, query bson.M) ([]*catalog.FoodItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot list food items: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*catalog.FoodItem
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("cannot decode food items: %w", err)
	}

	return result, nil
}
