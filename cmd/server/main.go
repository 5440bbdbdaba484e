package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/P4t4m8n/buff-buddy-api/internal/config"
	"github.com/P4t4m8n/buff-buddy-api/internal/database"
	"github.com/P4t4m8n/buff-buddy-api/internal/handlers"
	"github.com/P4t4m8n/buff-buddy-api/internal/logging"
	"github.com/P4t4m8n/buff-buddy-api/internal/observability"
	"github.com/P4t4m8n/buff-buddy-api/internal/routes"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logging.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer appLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to Database
	if cfg.DBUrl == "" {
		appLogger.Fatal("DB_URL is required")
	}
	if err := database.ConnectDB(ctx, cfg.DBUrl, appLogger); err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB()

	// 3. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      "buff-buddy-api",
		ErrorHandler: handlers.ErrorHandler(appLogger),
	})
	metrics := observability.NewMetrics()

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins(cfg),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(metrics.Middleware())

	// Routes
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})
	if err := routes.RegisterRoutes(ctx, app, cfg, database.DB, appLogger, metrics); err != nil {
		appLogger.Fatal("Failed to register routes", zap.Error(err))
	}

	go func() {
		<-ctx.Done()
		appLogger.Info("Shutting down server")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			appLogger.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	// 4. Start Server
	appLogger.Info("Server starting",
		zap.String("port", cfg.Port),
		zap.String("api_prefix", cfg.APIPrefix()),
		zap.Bool("google_sign_in", cfg.GoogleEnabled()),
	)
	if err := app.Listen(":" + cfg.Port); err != nil {
		appLogger.Fatal("Server failed to start", zap.Error(err))
	}
}

// allowedOrigins never returns a wildcard since credentials are allowed.
func allowedOrigins(cfg *config.Config) string {
	if len(cfg.AllowedOrigins) > 0 {
		return strings.Join(cfg.AllowedOrigins, ",")
	}
	return cfg.FrontendURL
}
