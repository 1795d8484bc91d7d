package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/rkurane/collegebus/internal/app/controllers"
	appMigrations "github.com/rkurane/collegebus/internal/app/migrations"
	appRepos "github.com/rkurane/collegebus/internal/app/repositories"
	appRoutes "github.com/rkurane/collegebus/internal/app/routes"
	appServices "github.com/rkurane/collegebus/internal/app/services"
	"github.com/rkurane/collegebus/internal/config"
	"github.com/rkurane/collegebus/internal/db"
	appMiddleware "github.com/rkurane/collegebus/internal/middleware"
	pkgAuth "github.com/rkurane/collegebus/internal/pkg/auth"
	"github.com/rkurane/collegebus/internal/pkg/email"
	"github.com/rkurane/collegebus/internal/pkg/logger"
	"github.com/rkurane/collegebus/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos             *appRepos.Repositories
	Services          *appServices.Services
	JWTService        *pkgAuth.JWTService
	Mailer            email.Sender
	AuthController    *appControllers.AuthController
	BusController     *appControllers.BusController
	StudentController *appControllers.StudentController
	AuthMiddleware    *appMiddleware.AuthMiddleware
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger
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
// seeds the default admin account.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection established")

	migrator := appMigrations.NewMigrator(dbPool)
	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}
	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := seed.EnsureDefaultAdmin(ctx, dbPool, cfg.Seed.AdminEmail, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to seed default admin, proceeding anyway")
	}

	return dbPool, nil
}

// BuildDependencies initializes repositories, services, controllers and
// middleware.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		SessionTokenExp: cfg.TokenExpiration(),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.Mailer = email.NewSMTPSender(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
	}, lgr)

	deps.Services = appServices.NewServices(deps.Repos, deps.JWTService, deps.Mailer, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.Services.AuthService, deps.Services.AdminResetService)
	deps.BusController = appControllers.NewBusController(deps.Services.BusService)
	deps.StudentController = appControllers.NewStudentController(deps.Services.StudentService, deps.Services.AuthService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(appMiddleware.Metrics())

	corsConfig := cors.DefaultConfig()
	if cfg.Server.CORSOrigins == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = strings.Split(cfg.Server.CORSOrigins, ",")
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	frontendDir := cfg.Server.FrontendDir
	if frontendDir != "" {
		if _, err := os.Stat(frontendDir); os.IsNotExist(err) {
			lgr.Warn().Str("path", frontendDir).Msg("Frontend directory not found, SPA fallback disabled")
			frontendDir = ""
		}
	}

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.BusController,
		deps.StudentController,
		deps.AuthMiddleware,
		frontendDir,
	)

	return router
}
