package commands

import (
	"context"
	"fmt"

	"github.com/appetiteclub/apt"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var demoSeedIDs = []string{
	"2026-01-12_catalog_starter_dishes",
	"2026-01-12_staff_demo_crew",
}

// ClearDemo removes seeded demo data and its seed tracker records so
// seed-demo can run again.
func ClearDemo(ctx context.Context, config *apt.Config, logger apt.Logger) error {
	logger.Info("Starting demo data cleanup...")

	client, dbName, err := connect(ctx, config)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	logger.Info("Connected to MongoDB")
	db := client.Database(dbName)

	if err := clearCatalogDemo(ctx, db, logger); err != nil {
		return fmt.Errorf("clear catalog demo: %w", err)
	}

	if err := clearStaffDemo(ctx, db, logger); err != nil {
		return fmt.Errorf("clear staff demo: %w", err)
	}

	seedsCollection := db.Collection("_seeds")
	result, err := seedsCollection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": demoSeedIDs}})
	if err != nil {
		return fmt.Errorf("clear seed tracker: %w", err)
	}
	logger.Info("Cleared seed tracker records", "count", result.DeletedCount)

	return nil
}

func clearCatalogDemo(ctx context.Context, db *mongo.Database, logger apt.Logger) error {
	names := []string{
		"Paneer Tikka", "Chicken 65", "Veg Spring Rolls",
		"Paneer Butter Masala", "Dal Makhani", "Chicken Biryani", "Mutton Rogan Josh",
		"Butter Naan", "Tandoori Roti",
		"Gulab Jamun", "Rasmalai", "Masala Chaas",
	}

	result, err := db.Collection("food_items").DeleteMany(ctx, bson.M{"name": bson.M{"$in": names}})
	if err != nil {
		return fmt.Errorf("delete demo food items: %w", err)
	}
	logger.Info("Deleted demo food items", "count", result.DeletedCount)
	return nil
}

func clearStaffDemo(ctx context.Context, db *mongo.Database, logger apt.Logger) error {
	names := []string{
		"Ramesh Kumar", "Suresh Yadav", "Lata Deshmukh", "Anil Patil", "Mohan Singh",
	}

	result, err := db.Collection("staff").DeleteMany(ctx, bson.M{"name": bson.M{"$in": names}})
	if err != nil {
		return fmt.Errorf("delete demo staff: %w", err)
	}
	logger.Info("Deleted demo staff", "count", result.DeletedCount)
	return nil
}
