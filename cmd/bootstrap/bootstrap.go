package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"doctor-connect/config"
	deliveryHttp "doctor-connect/internal/delivery/http"
	"doctor-connect/internal/delivery/http/handler"
	"doctor-connect/internal/delivery/http/middleware"
	domainRepo "doctor-connect/internal/domain/repository"
	"doctor-connect/internal/infrastructure/cache"
	"doctor-connect/internal/infrastructure/database"
	"doctor-connect/internal/repository"
	"doctor-connect/internal/service"
	"doctor-connect/internal/usecase"
	"doctor-connect/pkg/jwt"
	"doctor-connect/pkg/metrics"
	"doctor-connect/pkg/validator"

	"github.com/gorilla/handlers"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	log := setupLogger(cfg.App.LogLevel)
	app.Log = log
	log.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	log.Info("Database connected successfully")

	if cfg.DB.AutoMigrate {
		if err := database.RunMigrations(cfg.DB, log); err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	doctorRepo := repository.NewDoctorRepository()
	if cfg.DB.Seed {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := database.SeedDoctors(ctx, db, log, doctorRepo, database.DefaultDoctors); err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to seed doctors: %w", err)
		}
	}

	// Initialize Redis
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis, log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	// Initialize all layers
	app.Server = initializeServer(cfg, log, db, redisClient, doctorRepo)

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(level string) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

// initializeServer creates and configures the HTTP server
func initializeServer(
	cfg *config.Config,
	log *logrus.Logger,
	db *gorm.DB,
	redisClient *redis.Client,
	doctorRepo domainRepo.DoctorRepository,
) *http.Server {
	// Initialize shared services
	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()
	appMetrics := metrics.New()
	slotLocker := service.NewSlotLockService(redisClient, log, cfg.Slot.LockTTL)

	// Initialize repositories
	appointmentRepo := repository.NewAppointmentRepository()
	userRepo := repository.NewUserRepository()

	// Initialize usecases
	doctorUsecase := usecase.NewDoctorUsecase(db, log, doctorRepo, appointmentRepo)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, customValidator, appMetrics, appointmentRepo, doctorRepo, slotLocker)
	userUsecase := usecase.NewUserUsecase(db, log, customValidator, userRepo, doctorRepo, jwtService)

	// Initialize handlers
	doctorHandler := handler.NewDoctorHandler(doctorUsecase)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase)
	userHandler := handler.NewUserHandler(userUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSAllowedOrigins)

	// Initialize router
	router := deliveryHttp.NewRouter(doctorHandler, appointmentHandler, userHandler, authMiddleware, corsMiddleware, appMetrics)
	httpHandler := router.Setup()

	// Access log and panic recovery
	httpHandler = handlers.CombinedLoggingHandler(log.Writer(), httpHandler)
	httpHandler = handlers.RecoveryHandler(handlers.RecoveryLogger(log), handlers.PrintRecoveryStack(cfg.App.Env != "production"))(httpHandler)

	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           httpHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run serves HTTP until SIGINT or SIGTERM, then shuts down gracefully
func (app *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		app.Log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.Server.Shutdown(shutdownCtx); err != nil {
			app.Log.Errorf("Server forced to shutdown: %v", err)
			return err
		}
		return nil
	})

	err := g.Wait()
	app.Close()
	app.Log.Info("Server shutdown complete")
	return err
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
