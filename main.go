package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/middleware"

	"github.com/zaikaclub/zaika/internal/audit"
	"github.com/zaikaclub/zaika/internal/booking"
	"github.com/zaikaclub/zaika/internal/catalog"
	"github.com/zaikaclub/zaika/internal/mongo"
	"github.com/zaikaclub/zaika/internal/notify"
	"github.com/zaikaclub/zaika/internal/staff"
	"github.com/zaikaclub/zaika/pkg"
)

const (
	appNamespace = "ZAIKA"
	appName      = "zaika"
	appVersion   = "0.1.0"
)

func main() {
	config, err := apt.LoadConfig(appNamespace, os.Args[1:])
	if err != nil {
		log.Fatalf("%s(%s) cannot setup: %v", appName, appVersion, err)
	}

	logLevel, _ := config.GetString("log.level")
	logger := apt.NewLogger(logLevel)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	seedCtx, cancelSeeds := context.WithCancel(ctx)
	defer cancelSeeds()

	baseRepo := mongo.NewBaseRepo(config, logger)
	err = baseRepo.Start(ctx)
	if err != nil {
		log.Fatalf("%s(%s) cannot start base repository: %v", appName, appVersion, err)
	}

	db := baseRepo.GetDatabase()
	if db == nil {
		log.Fatalf("%s(%s) cannot initialize repository database: %v", appName, appVersion, errors.New("repository database is nil"))
	}

	bookingRepo := mongo.NewBookingRepo(db)
	foodItemRepo := mongo.NewFoodItemRepo(db)
	staffRepo := mongo.NewStaffRepo(db)
	auditRepo := mongo.NewAuditRepo(db)

	recorder := audit.NewRecorder(auditRepo, logger)

	natsURL := config.GetStringOrDef("nats.url", "nats://localhost:4222")

	pub, err := pkg.NewNATSPublisher(natsURL)
	if err != nil {
		log.Fatalf("%s(%s) cannot connect to NATS publisher: %v", appName, appVersion, err)
	}

	sub, err := pkg.NewNATSSubscriber(natsURL)
	if err != nil {
		log.Fatalf("%s(%s) cannot connect to NATS subscriber: %v", appName, appVersion, err)
	}

	notifier := notify.NewSubscriber(sub, logger)

	publisherLifecycle := apt.LifecycleHooks{
		OnStop: func(context.Context) error {
			return pub.Close()
		},
	}

	subLifecycle := apt.LifecycleHooks{
		OnStop: func(context.Context) error {
			return sub.Close()
		},
	}

	lifecycle := booking.NewLifecycle(bookingRepo, foodItemRepo, staffRepo, recorder, pub, logger)
	prep := booking.NewPrepAggregator(bookingRepo, foodItemRepo, logger)

	bookingHandler := booking.NewHandler(lifecycle, prep, config, logger)
	catalogHandler := catalog.NewHandler(foodItemRepo, bookingRepo, recorder, config, logger)
	staffHandler := staff.NewHandler(staffRepo, recorder, config, logger)
	auditHandler := audit.NewHandler(recorder, config, logger)

	// Setup demo seeding if enabled
	demoEnabled, _ := config.GetString("seeding.demo")
	var seedHooks apt.LifecycleHooks
	if demoEnabled == "true" {
		logger.Info("Demo seeding enabled")
		seedHooks = apt.LifecycleHooks{
			OnStart: func(context.Context) error {
				if err := catalog.ApplyDemoSeeds(seedCtx, foodItemRepo, db, logger); err != nil {
					return err
				}
				return staff.ApplyDemoSeeds(seedCtx, staffRepo, db, logger)
			},
			OnStop: func(context.Context) error {
				cancelSeeds()
				return nil
			},
		}
	}

	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger:      logger,
		DisableCORS: true, // Internal API service
	})

	// Defense-in-depth: restrict to internal networks only.
	// This complements (does not replace) network policies at the infrastructure level.
	stack = append(stack, middleware.InternalOnly())

	lifecycles := []interface{}{
		apt.LifecycleHooks{OnStop: baseRepo.Stop},
		notifier,
		publisherLifecycle,
		subLifecycle,
	}
	if demoEnabled == "true" {
		lifecycles = append(lifecycles, seedHooks)
	}

	options := []apt.Option{
		apt.WithConfig(config),
		apt.WithLogger(logger),
		apt.WithHTTPMiddleware(stack...),
		apt.WithHTTPServerModules("web.port", bookingHandler, catalogHandler, staffHandler, auditHandler),
		apt.WithLifecycle(lifecycles...),
		apt.WithHealthChecks(appName),
	}

	ms := apt.NewMicro(options...)
	logger.Infof("Starting %s(%s)", appName, appVersion)

	err = ms.Run(ctx)
	if err != nil {
		_ = baseRepo.Stop(context.Background())
		log.Fatalf("%s(%s) stopped: %v", appName, appVersion, err)
	}

	logger.Infof("%s(%s) stopped", appName, appVersion)
}
