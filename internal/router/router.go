package router

import (
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/machele-codez/socialape-api/internal/engine"
	"github.com/machele-codez/socialape-api/internal/handlers"
	"github.com/machele-codez/socialape-api/internal/middleware"
	"github.com/machele-codez/socialape-api/internal/repositories"
	"github.com/machele-codez/socialape-api/internal/store"
	"go.uber.org/zap"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
}

// SetupRoutes configures all application routes and injects dependencies.
// The store passed here must be the event-recording store so that every
// handler write feeds the consistency engine.
func SetupRoutes(e *echo.Echo, s store.Store, eng *engine.Engine, verifier middleware.TokenVerifier, identity handlers.IdentityClient, logger *zap.Logger) {
	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewStoreUserRepository(s)
	screamRepo := repositories.NewStoreScreamRepository(s)
	commentRepo := repositories.NewStoreCommentRepository(s)
	likeRepo := repositories.NewStoreLikeRepository(s)
	notificationRepo := repositories.NewStoreNotificationRepository(s)

	screamHandler := handlers.NewScreamHandler(screamRepo, commentRepo, likeRepo)
	userHandler := handlers.NewUserHandler(userRepo, screamRepo, likeRepo, notificationRepo, identity)
	maintenanceHandler := handlers.NewMaintenanceHandler(eng)

	// --- Unprotected routes ---
	public := e.Group("/api/v1")
	screamHandler.RegisterPublicScreamRoutes(public)
	userHandler.RegisterPublicUserRoutes(public)
	logger.Info("public routes configured")

	// --- Protected routes (require a verified bearer token) ---
	api := e.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(verifier, userRepo))
	screamHandler.RegisterScreamRoutes(api)
	userHandler.RegisterUserRoutes(api)
	maintenanceHandler.RegisterMaintenanceRoutes(api)
	logger.Info("authenticated routes configured")
}
