package routes

import (
	"context"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/P4t4m8n/buff-buddy-api/internal/config"
	"github.com/P4t4m8n/buff-buddy-api/internal/handlers"
	"github.com/P4t4m8n/buff-buddy-api/internal/middleware"
	"github.com/P4t4m8n/buff-buddy-api/internal/observability"
	"github.com/P4t4m8n/buff-buddy-api/internal/repository"
	"github.com/P4t4m8n/buff-buddy-api/internal/services"
	programws "github.com/P4t4m8n/buff-buddy-api/internal/websocket"
)

// RegisterRoutes wires repositories, services and handlers onto app. The
// program event hub runs until ctx is cancelled.
func RegisterRoutes(
	ctx context.Context,
	app *fiber.App,
	cfg *config.Config,
	db *pgxpool.Pool,
	logger *zap.Logger,
	metrics *observability.Metrics,
) error {
	userRepo := repository.NewUserRepository(db)
	exerciseRepo := repository.NewExerciseRepository(db)
	programRepo := repository.NewProgramRepository(db)

	var provider services.IdentityProvider
	if cfg.GoogleEnabled() {
		provider = services.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURI)
	}

	programHub := programws.NewHub(logger.Named("program_hub"), metrics)
	go programHub.Run(ctx)

	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.SaltRounds, provider, metrics)
	exerciseService := services.NewExerciseService(exerciseRepo)
	programService := services.NewProgramService(programRepo, programHub, metrics)

	authHandler := handlers.NewAuthHandler(authService, logger, cfg.IsProduction(), cfg.FrontendURL)
	exerciseHandler := handlers.NewExerciseHandler(exerciseService, logger)
	programHandler := handlers.NewProgramHandler(programService, logger)
	streamHandler := handlers.NewProgramStreamHandler(programHub, logger)

	app.Get("/metrics", metrics.Handler())
	if err := registerDocsRoutes(app, cfg); err != nil {
		return err
	}

	api := app.Group(cfg.APIPrefix(), middleware.Session(authService))

	auth := api.Group("/auth")
	auth.Post("/sign-up", authHandler.SignUp)
	auth.Post("/sign-in", authHandler.SignIn)
	auth.Post("/sign-out", authHandler.SignOut)
	auth.Get("/session-user", middleware.RequireAuth(), authHandler.SessionUser)
	auth.Put("/me", middleware.RequireAuth(), authHandler.UpdateMe)
	auth.Post("/change-password", middleware.RequireAuth(), authHandler.ChangePassword)
	auth.Get("/google", authHandler.GoogleRedirect)
	auth.Get("/google/callback", authHandler.GoogleCallback)

	registerExerciseRoutes(api, exerciseHandler)

	programs := api.Group("/programs", middleware.RequireAuth())
	programs.Get("/", programHandler.ListPrograms)
	programs.Get("/:id", programHandler.GetProgram)
	programs.Post("/edit", programHandler.CreateProgram)
	programs.Put("/edit/:id", programHandler.UpdateProgram)
	programs.Delete("/:id", programHandler.DeleteProgram)

	api.Use("/ws/programs", streamHandler.Upgrade)
	api.Get("/ws/programs", websocket.New(streamHandler.Stream))

	return nil
}

// registerExerciseRoutes mounts the shared exercise catalogue. Reads and
// edits are public; deletion is admin only.
func registerExerciseRoutes(api fiber.Router, handler *handlers.ExerciseHandler) {
	exercises := api.Group("/exercises")
	exercises.Get("/", handler.ListExercises)
	exercises.Get("/:id", handler.GetExercise)
	exercises.Post("/edit", handler.CreateExercise)
	exercises.Put("/edit/:id", handler.UpdateExercise)
	exercises.Delete("/:id", middleware.RequireAdmin(), handler.DeleteExercise)
}
