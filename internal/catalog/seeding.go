package catalog

import (
	"context"
	"errors"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/seed"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/zaikaclub/zaika/pkg/enums/diettype"
)

const catalogDemoSeedApplication = "catalog_demo"

// ApplyDemoSeeds loads a starter food catalog so a fresh install has dishes
// to book against.
func ApplyDemoSeeds(ctx context.Context, repo FoodItemRepo, db *mongo.Database, logger apt.Logger) error {
	if db == nil {
		return errors.New("database is required for demo seeding")
	}

	tracker := seed.NewMongoTracker(db)

	seeds := []seed.Seed{
		{
			ID:          "2026-01-12_catalog_starter_dishes",
			Description: "Seed a representative catering menu across categories",
			Run: func(ctx context.Context) error {
				return seedStarterDishes(ctx, repo)
			},
		},
	}

	logger.Info("Applying demo catalog seeds")
	if err := seed.Apply(ctx, tracker, seeds, catalogDemoSeedApplication); err != nil {
		return err
	}
	logger.Info("Demo catalog seeds applied successfully")
	return nil
}

func seedStarterDishes(ctx context.Context, repo FoodItemRepo) error {
	veg := diettype.Types.Veg.Code()
	nonveg := diettype.Types.NonVeg.Code()

	dishes := []*FoodItem{
		NewFoodItem("Paneer Tikka", "starter", veg, 120),
		NewFoodItem("Chicken 65", "starter", nonveg, 150),
		NewFoodItem("Veg Spring Rolls", "starter", veg, 90),
		NewFoodItem("Paneer Butter Masala", "main", veg, 180),
		NewFoodItem("Dal Makhani", "main", veg, 140),
		NewFoodItem("Chicken Biryani", "main", nonveg, 220),
		NewFoodItem("Mutton Rogan Josh", "main", nonveg, 260),
		NewFoodItem("Butter Naan", "bread", veg, 40),
		NewFoodItem("Tandoori Roti", "bread", veg, 25),
		NewFoodItem("Gulab Jamun", "dessert", veg, 60),
		NewFoodItem("Rasmalai", "dessert", veg, 80),
		NewFoodItem("Masala Chaas", "beverage", veg, 35),
	}

	for _, dish := range dishes {
		dish.BeforeCreate()
		if err := repo.Create(ctx, dish); err != nil {
			return err
		}
	}

	return nil
}
