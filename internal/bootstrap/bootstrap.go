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
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/campusreg/registrar/internal/app/controllers"
	appMigrations "github.com/campusreg/registrar/internal/app/migrations"
	appRepos "github.com/campusreg/registrar/internal/app/repositories"
	appRoutes "github.com/campusreg/registrar/internal/app/routes"
	appServices "github.com/campusreg/registrar/internal/app/services"
	"github.com/campusreg/registrar/internal/config"
	"github.com/campusreg/registrar/internal/db"
	appMiddleware "github.com/campusreg/registrar/internal/middleware"
	pkgAuth "github.com/campusreg/registrar/internal/pkg/auth"
	"github.com/campusreg/registrar/internal/pkg/logger"
	"github.com/campusreg/registrar/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos                  *appRepos.Repositories
	Store                  *appRepos.Store
	JWTService             *pkgAuth.JWTService
	SectionAllocator       *appServices.SectionAllocator
	EnrollmentService      *appServices.EnrollmentService
	EligibilityService     *appServices.EligibilityService
	RegistrationService    *appServices.RegistrationService
	AuthController         *appControllers.AuthController
	CatalogController      *appControllers.CatalogController
	RegistrationController *appControllers.RegistrationController
	AuthMiddleware         *appMiddleware.AuthMiddleware
	RedisClient            *redis.Client
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

// SetupDatabase establishes the database connection, runs migrations and
// seeds default data.
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
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(context.Background(), migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Seeding failures are logged but never block startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes repositories, services, controllers and
// middleware.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)
	deps.Store = appRepos.NewStore(&db.PostgresDB{Pool: dbPool})

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: parseDuration(cfg.JWT.AccessTokenExpiration, time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	// Redis is optional; a missing addr leaves the eligibility cache off.
	if cfg.Redis.Addr != "" {
		deps.RedisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := deps.RedisClient.Ping(ctx).Err(); err != nil {
			lgr.Warn().Err(err).Str("addr", cfg.Redis.Addr).
				Msg("Redis unreachable, eligibility cache disabled")
			deps.RedisClient = nil
		} else {
			lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Redis eligibility cache enabled")
		}
	}

	deps.SectionAllocator = appServices.NewSectionAllocator(cfg.Registration.SectionCapacity, lgr)
	deps.EnrollmentService = appServices.NewEnrollmentService(deps.Store, deps.SectionAllocator, lgr)
	deps.EligibilityService = appServices.NewEligibilityService(deps.Store, deps.RedisClient, cfg.RedisTTL(), lgr)
	deps.RegistrationService = appServices.NewRegistrationService(deps.Store, deps.EnrollmentService, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Repos.RecordRepository)

	deps.AuthController = appControllers.NewAuthController(deps.Repos.StudentRepository, deps.JWTService)
	deps.CatalogController = appControllers.NewCatalogController(
		deps.Repos.PeriodRepository,
		deps.Repos.DepartmentRepository,
		deps.Repos.CourseRepository,
	)
	deps.RegistrationController = appControllers.NewRegistrationController(
		deps.EligibilityService,
		deps.RegistrationService,
	)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestID())
	router.Use(appMiddleware.RequestLogger(lgr))

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.CatalogController,
		deps.RegistrationController,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
