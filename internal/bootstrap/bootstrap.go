// Package bootstrap wires configuration, storage and the dependency graph.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/akarpov/docflow/internal/app/controllers"
	appMigrations "github.com/akarpov/docflow/internal/app/migrations"
	appRepos "github.com/akarpov/docflow/internal/app/repositories"
	appRoutes "github.com/akarpov/docflow/internal/app/routes"
	appServices "github.com/akarpov/docflow/internal/app/services"
	"github.com/akarpov/docflow/internal/app/templates"
	"github.com/akarpov/docflow/internal/config"
	"github.com/akarpov/docflow/internal/db"
	appMiddleware "github.com/akarpov/docflow/internal/middleware"
	pkgAuth "github.com/akarpov/docflow/internal/pkg/auth"
	"github.com/akarpov/docflow/internal/pkg/logger"
	"github.com/akarpov/docflow/internal/seed"
	"github.com/akarpov/docflow/internal/storage"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService        appServices.AuthService
	UserService        appServices.UserService
	DocumentService    appServices.DocumentService
	AuthController     *appControllers.AuthController
	UserController     *appControllers.UserController
	DocumentController *appControllers.DocumentController
	AuthMiddleware     *appMiddleware.AuthMiddleware
	Repos              *appRepos.Repositories
	JWTService         *pkgAuth.JWTService
	Templates          *templates.Registry
	Storage            storage.ObjectStorage
	Logger             zerolog.Logger
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

// SetupDatabase establishes the database connection, runs migrations and
// seeds the default curator account.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
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
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	// Without a curator nobody can assign roles, so this one failing is fatal.
	if err := seed.CreateDefaultCurator(context.Background(), dbPool, cfg, lgr); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to seed default curator: %w", err)
	}

	return dbPool, nil
}

// BuildDependencies initializes repositories, services and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	registry, err := templates.Load(cfg.Templates.Path)
	if err != nil {
		lgr.Error().Err(err).Str("path", cfg.Templates.Path).Msg("Failed to load template registry")
		return nil, fmt.Errorf("failed to load template registry: %w", err)
	}
	deps.Templates = registry
	lgr.Info().Strs("templates", registry.Names()).Msg("Template registry loaded")

	// Object storage is optional: without it completed artifacts are
	// rendered on the fly instead of being archived.
	if cfg.Storage.Endpoint != "" {
		store, err := storage.NewMinIO(cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to initialize object storage")
			return nil, fmt.Errorf("failed to initialize object storage: %w", err)
		}
		deps.Storage = store
		lgr.Info().Str("endpoint", cfg.Storage.Endpoint).Str("bucket", cfg.Storage.Bucket).Msg("Object storage configured")
	} else {
		lgr.Warn().Msg("No object storage configured, artifacts will be rendered on demand")
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: parseDuration(cfg.JWT.AccessTokenExpiration, 24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(deps.Repos.UserRepository, deps.JWTService, lgr)
	deps.UserService = appServices.NewUserService(deps.Repos.UserRepository, lgr)
	deps.DocumentService = appServices.NewDocumentService(
		deps.Repos.DocumentRepository,
		deps.Repos.UserRepository,
		deps.Templates,
		deps.Storage,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.UserController = appControllers.NewUserController(deps.UserService, lgr)
	deps.DocumentController = appControllers.NewDocumentController(deps.DocumentService, lgr)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, dbPool *pgxpool.Pool, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(lgr))

	metrics, err := appMiddleware.NewMetricsMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to register HTTP metrics, continuing without them")
	} else {
		router.Use(metrics.Handler())
	}

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.UserController,
		deps.DocumentController,
		deps.AuthMiddleware,
		healthHandler(dbPool),
	)

	return router
}

func healthHandler(dbPool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := dbPool.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Warn().Str("value", value).Dur("fallback", fallback).Msg("Could not parse duration, using fallback")
		return fallback
	}
	return d
}
