package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appAuth "github.com/myuniba/myuniba/internal/app/auth"
	appControllers "github.com/myuniba/myuniba/internal/app/controllers"
	appMigrations "github.com/myuniba/myuniba/internal/app/migrations"
	appRepos "github.com/myuniba/myuniba/internal/app/repositories"
	appRoutes "github.com/myuniba/myuniba/internal/app/routes"
	appServices "github.com/myuniba/myuniba/internal/app/services"
	"github.com/myuniba/myuniba/internal/config"
	"github.com/myuniba/myuniba/internal/db"
	appMiddleware "github.com/myuniba/myuniba/internal/middleware"
	pkgAuth "github.com/myuniba/myuniba/internal/pkg/auth"
	"github.com/myuniba/myuniba/internal/pkg/logger"
	"github.com/myuniba/myuniba/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	DB                *db.PostgresDB
	Repos             *appRepos.Repositories
	JWTService        *pkgAuth.JWTService
	AuthzService      *appAuth.AuthorizationService
	OfferingService   appServices.OfferingService
	EnrollmentService appServices.EnrollmentService
	GradeService      appServices.GradeService
	ExamCardService   appServices.ExamCardService
	DashboardService  appServices.DashboardService
	Controllers       appRoutes.Controllers
	AuthMiddleware    *appMiddleware.AuthMiddleware
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(filepath.Join("configs", "config.yaml"))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: cfg.Logging.Format == "text",
	})
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	migrator, err := appMigrations.NewMigrator(database.Pool, lgr)
	if err != nil {
		database.Close()
		return nil, err
	}
	defer migrator.Close()

	if err := migrator.Up(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{DB: database, Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	policy, err := appAuth.PolicyByName(cfg.Enrollment.ApprovalPolicy)
	if err != nil {
		return nil, err
	}
	deps.AuthzService = appAuth.NewAuthorizationService(deps.Repos.OfferingRepository, policy)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenIssuer: cfg.JWT.Issuer,
	})

	deps.OfferingService = appServices.NewOfferingService(deps.Repos.OfferingRepository, deps.AuthzService)
	deps.EnrollmentService = appServices.NewEnrollmentService(
		database,
		deps.Repos.EnrollmentRepository,
		deps.Repos.OfferingRepository,
		deps.AuthzService,
		appServices.EnrollmentOptions{RestoreSeatsOnCancel: cfg.Enrollment.RestoreSeatsOnCancel},
	)
	deps.GradeService = appServices.NewGradeService(
		database,
		deps.Repos.GradeRepository,
		deps.Repos.EnrollmentRepository,
		deps.AuthzService,
		appServices.GradeOptions{EnforceCanonicalMapping: cfg.Grading.EnforceCanonicalMapping},
	)
	deps.ExamCardService = appServices.NewExamCardService(
		deps.Repos.PeopleRepository,
		deps.Repos.EnrollmentRepository,
		deps.Repos.BillRepository,
	)

	deps.DashboardService = appServices.NewDashboardService(
		deps.Repos.EnrollmentRepository,
		deps.Repos.OfferingRepository,
		deps.Repos.GradeRepository,
		deps.Repos.BillRepository,
		deps.GradeService,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.Controllers = appRoutes.Controllers{
		KRS:       appControllers.NewKRSController(deps.OfferingService, deps.EnrollmentService),
		Lecturer:  appControllers.NewLecturerController(deps.EnrollmentService, deps.OfferingService),
		Grade:     appControllers.NewGradeController(deps.GradeService),
		ExamCard:  appControllers.NewExamCardController(deps.ExamCardService),
		Dashboard: appControllers.NewDashboardController(deps.DashboardService),
	}

	if cfg.Seed.Enabled && !cfg.IsProduction() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := seed.CreateDefaultData(ctx, database.Pool, deps.JWTService, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := appMiddleware.RegisterValidators(); err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger())

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router, nil
}
