package commands

import (
	"context"
	"fmt"

	"github.com/appetiteclub/apt"

	"github.com/zaikaclub/zaika/internal/catalog"
	zmongo "github.com/zaikaclub/zaika/internal/mongo"
	"github.com/zaikaclub/zaika/internal/staff"
)

// SeedDemo applies the starter catalog and demo crew seeds.
func SeedDemo(ctx context.Context, config *apt.Config, logger apt.Logger) error {
	logger.Info("Starting demo seeding process...")

	client, dbName, err := connect(ctx, config)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	logger.Info("Connected to MongoDB")
	db := client.Database(dbName)

	if err := catalog.ApplyDemoSeeds(ctx, zmongo.NewFoodItemRepo(db), db, logger); err != nil {
		return fmt.Errorf("seed catalog demo: %w", err)
	}

	if err := staff.ApplyDemoSeeds(ctx, zmongo.NewStaffRepo(db), db, logger); err != nil {
		return fmt.Errorf("seed staff demo: %w", err)
	}

	return nil
}
