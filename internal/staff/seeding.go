package staff

import (
	"context"
	"errors"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/seed"
	"go.mongodb.org/mongo-driver/mongo"
)

const staffDemoSeedApplication = "staff_demo"

// ApplyDemoSeeds loads a small demo crew so staff assignment can be exercised
// on a fresh install.
func ApplyDemoSeeds(ctx context.Context, repo StaffRepo, db *mongo.Database, logger apt.Logger) error {
	if db == nil {
		return errors.New("database is required for demo seeding")
	}

	tracker := seed.NewMongoTracker(db)

	seeds := []seed.Seed{
		{
			ID:          "2026-01-12_staff_demo_crew",
			Description: "Seed a demo serving and kitchen crew",
			Run: func(ctx context.Context) error {
				return seedDemoCrew(ctx, repo)
			},
		},
	}

	logger.Info("Applying demo staff seeds")
	if err := seed.Apply(ctx, tracker, seeds, staffDemoSeedApplication); err != nil {
		return err
	}
	logger.Info("Demo staff seeds applied successfully")
	return nil
}

func seedDemoCrew(ctx context.Context, repo StaffRepo) error {
	crew := []*Staff{
		NewStaff("Ramesh Kumar", "+91 98765 00001", "serving"),
		NewStaff("Suresh Yadav", "+91 98765 00002", "serving"),
		NewStaff("Lata Deshmukh", "+91 98765 00003", "cooking"),
		NewStaff("Anil Patil", "+91 98765 00004", "supervision"),
		NewStaff("Mohan Singh", "+91 98765 00005", "driving"),
	}

	for _, member := range crew {
		member.BeforeCreate()
		if err := repo.Create(ctx, member); err != nil {
			return err
		}
	}

	return nil
}
