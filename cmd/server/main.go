package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/machele-codez/socialape-api/internal/engine"
	"github.com/machele-codez/socialape-api/internal/events"
	"github.com/machele-codez/socialape-api/internal/router"
	"github.com/machele-codez/socialape-api/internal/store"
	"github.com/machele-codez/socialape-api/pkg/config"
	"github.com/machele-codez/socialape-api/pkg/firebase"
	"github.com/machele-codez/socialape-api/pkg/logging"
	"github.com/machele-codez/socialape-api/validators"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database connection
	db, err := config.InitDB(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.CloseDB()

	// Initialize Firebase
	ctx := context.Background()
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		logger.Fatal("failed to initialize Firebase", zap.Error(err))
	}

	// Event bus: in-process by default, NATS when a broker is configured
	var bus events.Bus
	if cfg.EventBus == "nats" {
		natsBus, err := events.NewNATSBus(events.NATSConfig{
			URL:           cfg.NATSURL,
			ClientName:    "socialape-api",
			MaxReconnects: 10,
			ReconnectWait: 2 * time.Second,
		}, logger)
		if err != nil {
			logger.Fatal("failed to connect event bus", zap.Error(err))
		}
		defer natsBus.Close()
		bus = natsBus
	} else {
		bus = events.NewInProcBus()
	}

	// The engine reacts to change events against the raw store; handlers
	// write through the recorder so their writes emit those events.
	rawStore := store.NewMongoStore(db.Mongo, cfg.MongoDatabase)
	eng := engine.New(engine.Config{
		Store:               rawStore,
		Logger:              logger,
		SuppressSelfComment: cfg.SuppressSelfComment,
	})
	if err := eng.Register(bus); err != nil {
		logger.Fatal("failed to register engine reactions", zap.Error(err))
	}
	recorded := events.NewRecorder(rawStore, bus, logger)

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, recorded, eng, firebaseApp, firebaseApp, logger)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
