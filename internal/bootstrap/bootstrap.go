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
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/yigit/clubhub/internal/app/auth"
	appControllers "github.com/yigit/clubhub/internal/app/controllers"
	appMigrations "github.com/yigit/clubhub/internal/app/migrations"
	appRepos "github.com/yigit/clubhub/internal/app/repositories"
	appRoutes "github.com/yigit/clubhub/internal/app/routes"
	appServices "github.com/yigit/clubhub/internal/app/services"
	"github.com/yigit/clubhub/internal/config"
	"github.com/yigit/clubhub/internal/db"
	appMiddleware "github.com/yigit/clubhub/internal/middleware"
	pkgAuth "github.com/yigit/clubhub/internal/pkg/auth"
	"github.com/yigit/clubhub/internal/pkg/email"
	"github.com/yigit/clubhub/internal/pkg/filestorage"
	"github.com/yigit/clubhub/internal/pkg/helpers"
	"github.com/yigit/clubhub/internal/pkg/logger"
	"github.com/yigit/clubhub/internal/pkg/metrics"
	"github.com/yigit/clubhub/internal/pkg/ratelimit"
	"github.com/yigit/clubhub/internal/pkg/websocket"
	"github.com/yigit/clubhub/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos         *appRepos.Repositories
	JWTService    *pkgAuth.JWTService
	AuthzService  *appAuth.AuthorizationService
	FileStorage   *filestorage.LocalStorage
	Metrics       *metrics.Registry
	Hub           *websocket.Hub
	Notifications *appServices.NotificationService
	IPLimiter     *ratelimit.IPLimiter

	AuthService          *appServices.AuthService
	ProfileService       appServices.ProfileService
	TeamService          appServices.TeamService
	HourRequestService   appServices.HourRequestService
	DesignRequestService appServices.DesignRequestService
	EventService         appServices.EventService
	GalleryService       appServices.GalleryService
	ContactService       appServices.ContactService

	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	Logger         zerolog.Logger
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

// SetupDatabase establishes the database connection, applies migrations and
// seeds the default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	migrationsDir := cfg.Database.MigrationsPath
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		dbPool.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("path", migrationsDir).Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(dbPool, lgr).MigrateFromDirectory(ctx, migrationsDir); err != nil {
		dbPool.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(ctx, dbPool, cfg, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// SetupRedis connects to redis when configured. A nil result means redis is
// disabled and in-memory fallbacks are used.
func SetupRedis(cfg *config.Config, lgr zerolog.Logger) (*db.RedisDB, error) {
	redisDB, err := db.NewRedisDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to redis")
		return nil, err
	}
	if redisDB == nil {
		lgr.Info().Msg("Redis not configured, using in-memory check-in limiter")
		return nil, nil
	}
	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Redis connection established.")
	return redisDB, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, redisDB *db.RedisDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	baseURL := strings.TrimSuffix(cfg.Server.PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = "http://localhost:" + cfg.Server.Port
	}

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, baseURL+"/uploads")
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}
	uploads := appServices.FileUploads{Storage: deps.FileStorage, Files: deps.Repos.File}

	deps.AuthzService = appAuth.NewAuthorizationService(deps.Repos.Profile, deps.Repos.Team)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.Metrics = metrics.NewRegistry(prometheus.DefaultRegisterer)
	deps.IPLimiter = ratelimit.NewIPLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	deps.Hub = websocket.NewHub(logger.Component("websocket"))

	mailer := email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		BaseURL:   baseURL,
	}, nil, logger.Component("email"))
	deps.Notifications = appServices.NewNotificationService(deps.Hub, mailer, deps.Repos.Profile, deps.Repos.Team, deps.Metrics, logger.Component("notifications"))

	var attempts ratelimit.AttemptLimiter
	if redisDB != nil {
		attempts = ratelimit.NewRedisAttemptLimiter(redisDB.Client, cfg.CheckIn.MaxAttempts, cfg.CheckInAttemptWindow())
	} else {
		attempts = ratelimit.NewMemoryAttemptLimiter(cfg.CheckIn.MaxAttempts, cfg.CheckInAttemptWindow())
	}

	deps.AuthService = appServices.NewAuthService(deps.Repos.User, deps.Repos.Token, deps.Repos.Profile, deps.JWTService, lgr)
	deps.ProfileService = appServices.NewProfileService(
		deps.Repos.User,
		deps.Repos.Profile,
		deps.Repos.Team,
		deps.Repos.Event,
		deps.Repos.HourRequest,
		uploads,
		deps.AuthzService,
		lgr,
	)
	deps.TeamService = appServices.NewTeamService(deps.Repos.Team, deps.AuthzService, lgr)
	deps.HourRequestService = appServices.NewHourRequestService(
		deps.Repos.HourRequest,
		deps.Repos.Profile,
		deps.Repos.Team,
		uploads,
		deps.AuthzService,
		deps.Notifications,
		deps.Metrics,
		lgr,
	)
	deps.DesignRequestService = appServices.NewDesignRequestService(
		deps.Repos.DesignRequest,
		uploads,
		deps.AuthzService,
		deps.Notifications,
		deps.Metrics,
		lgr,
	)
	deps.EventService = appServices.NewEventService(deps.Repos.Event, deps.AuthzService, appServices.CheckInConfig{
		GracePeriod: cfg.CheckInGracePeriod(),
		Limiter:     attempts,
	}, deps.Metrics, lgr)
	deps.GalleryService = appServices.NewGalleryService(deps.Repos.Gallery, uploads, deps.AuthzService, lgr)
	deps.ContactService = appServices.NewContactService(deps.Repos.Contact, deps.AuthzService, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.AuthzService, lgr)

	var cachePing appControllers.PingFunc
	if redisDB != nil {
		cachePing = func(ctx context.Context) error { return redisDB.Client.Ping(ctx).Err() }
	}

	deps.Controllers = appRoutes.Controllers{
		Auth:          appControllers.NewAuthController(deps.AuthService, lgr),
		Profile:       appControllers.NewProfileController(deps.ProfileService),
		Team:          appControllers.NewTeamController(deps.TeamService),
		HourRequest:   appControllers.NewHourRequestController(deps.HourRequestService),
		DesignRequest: appControllers.NewDesignRequestController(deps.DesignRequestService),
		Event:         appControllers.NewEventController(deps.EventService),
		Gallery:       appControllers.NewGalleryController(deps.GalleryService),
		Contact:       appControllers.NewContactController(deps.ContactService),
		Health:        appControllers.NewHealthController(dbPool.Ping, cachePing),
		Notifications: websocket.NewHandler(deps.Hub, cfg.Server.AllowedOrigins, logger.Component("websocket")),
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
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		appMiddleware.RequestLogger(lgr),
		appMiddleware.Metrics(deps.Metrics),
		appMiddleware.RateLimit(deps.IPLimiter),
	)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	return router, nil
}

// WithCORS wraps the router with the configured cross-origin policy
func WithCORS(cfg *config.Config, handler http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", appMiddleware.RequestIDHeader},
		ExposedHeaders:   []string{appMiddleware.RequestIDHeader, "Content-Disposition", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	})(handler)
}
