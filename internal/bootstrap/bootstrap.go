package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/mcamargo/studentcard/internal/app/controllers"
	appMigrations "github.com/mcamargo/studentcard/internal/app/migrations"
	appRepos "github.com/mcamargo/studentcard/internal/app/repositories"
	appRoutes "github.com/mcamargo/studentcard/internal/app/routes"
	appServices "github.com/mcamargo/studentcard/internal/app/services"
	"github.com/mcamargo/studentcard/internal/config"
	"github.com/mcamargo/studentcard/internal/db"
	appMiddleware "github.com/mcamargo/studentcard/internal/middleware"
	"github.com/mcamargo/studentcard/internal/pkg/filestorage"
	"github.com/mcamargo/studentcard/internal/pkg/logger"
	"github.com/mcamargo/studentcard/internal/pkg/validation"
	"github.com/mcamargo/studentcard/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	CardRepository         appRepos.CardRepository
	CardService            *appServices.CardService
	VerificationService    *appServices.VerificationService
	CardController         *appControllers.CardController
	VerificationController *appControllers.VerificationController
	FileStorage            *filestorage.LocalStorage
	Logger                 zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
// Returns a nil pool when the in-memory driver is selected.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	if cfg.Database.Driver == config.DriverMemory {
		lgr.Info().Msg("Using in-memory card store, skipping database setup")
		return nil, nil
	}

	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")
	return dbPool, nil
}

// BuildDependencies initializes the repository, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	if err := validation.RegisterCustomValidators(); err != nil {
		lgr.Error().Err(err).Msg("Failed to register custom validators")
		return nil, fmt.Errorf("failed to register custom validators: %w", err)
	}

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		if dbPool == nil {
			return nil, fmt.Errorf("postgres driver selected but no connection pool provided")
		}
		deps.CardRepository = appRepos.NewCardPostgresRepository(dbPool)
	default:
		deps.CardRepository = appRepos.NewCardMemoryRepository()
	}

	// Photo storage base URL must match the static file serving path
	baseURL := "http://localhost:" + cfg.Server.Port + "/uploads"
	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, baseURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize photo storage")
		return nil, fmt.Errorf("failed to initialize photo storage: %w", err)
	}

	deps.CardService = appServices.NewCardService(deps.CardRepository, lgr)
	deps.VerificationService = appServices.NewVerificationService(deps.CardRepository)

	deps.CardController = appControllers.NewCardController(deps.CardService, deps.FileStorage)
	deps.VerificationController = appControllers.NewVerificationController(deps.VerificationService)

	if strings.ToLower(cfg.Server.Mode) == "development" {
		if err := seed.CreateDefaultCards(context.Background(), deps.CardRepository, lgr); err != nil {
			// Seeding is a convenience, not a startup requirement
			lgr.Error().Err(err).Msg("Failed to seed sample cards, proceeding anyway...")
		}
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(lgr))

	appRoutes.SetupRouter(router, deps.CardController, deps.VerificationController)

	return router
}
