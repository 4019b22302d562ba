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

	"go-vet-clinic/config"
	deliveryHttp "go-vet-clinic/internal/delivery/http"
	"go-vet-clinic/internal/delivery/http/handler"
	"go-vet-clinic/internal/delivery/http/middleware"
	"go-vet-clinic/internal/infrastructure/cache"
	"go-vet-clinic/internal/infrastructure/database"
	"go-vet-clinic/internal/repository"
	"go-vet-clinic/internal/service"
	"go-vet-clinic/internal/usecase"
	"go-vet-clinic/pkg/jwt"
	"go-vet-clinic/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Metrics     *service.Metrics
	Server      *http.Server
}

// NewLogger builds the JSON logrus logger used across the process.
func NewLogger(cfg config.AppConfig) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

// Migrate applies pending schema migrations.
func Migrate(cfg *config.Config, log *logrus.Logger) error {
	migrator, err := database.NewMigrator(cfg.DB.URL(), log)
	if err != nil {
		return err
	}
	defer migrator.Close()
	return migrator.Up()
}

// Connect opens the database and, when configured, Redis. Migrations run
// first when auto-migrate is enabled.
func Connect(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*App, error) {
	app := &App{Config: cfg, Log: log, Metrics: service.NewMetrics()}

	if cfg.App.AutoMigrate {
		if err := Migrate(cfg, log); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	log.Info("Database connected successfully")

	// Initialize Redis
	if cfg.Redis.Enabled() {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		app.RedisClient = redisClient
		log.Info("Redis connected successfully")
	} else {
		log.Warn("REDIS_HOST not set, queue tickets will be derived from the database")
	}

	return app, nil
}

// New creates a new App instance with all dependencies initialized
func New(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*App, error) {
	app, err := Connect(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	server, err := app.initializeServer(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Server = server

	return app, nil
}

// NewQueueService returns the Redis backed ticketer, for the queue-sync command.
func (app *App) NewQueueService() (*service.RedisQueueService, error) {
	if app.RedisClient == nil {
		return nil, errors.New("redis is not configured")
	}
	return service.NewRedisQueueService(app.DB, app.RedisClient, app.Log, repository.NewWaitingRoomRepository(), app.Metrics), nil
}

// initializeServer creates and configures the HTTP server
func (app *App) initializeServer(ctx context.Context) (*http.Server, error) {
	cfg, db, log := app.Config, app.DB, app.Log

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	roleRepo := repository.NewRoleRepository()
	clinicRepo := repository.NewClinicRepository()
	userRepo := repository.NewUserRepository()
	ownerRepo := repository.NewOwnerRepository()
	patientRepo := repository.NewPatientRepository()
	consultationRepo := repository.NewConsultationRepository()
	hospitalizationRepo := repository.NewHospitalizationRepository()
	labStudyRepo := repository.NewLabStudyRepository()
	waitingRepo := repository.NewWaitingRoomRepository()
	historialRepo := repository.NewHistorialRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	authorizer, err := service.LoadAuthorizer(ctx, db, log, roleRepo)
	if err != nil {
		return nil, fmt.Errorf("failed to load roles: %w", err)
	}
	guard := service.NewAccessGuard(log, authorizer, service.NewTenantScopeResolver(), app.Metrics)
	auditService := service.NewAuditService(log, auditLogRepo)
	historialService := service.NewHistorialService(log, historialRepo, app.Metrics)

	var ticketer service.QueueTicketer
	if app.RedisClient != nil {
		queueService := service.NewRedisQueueService(db, app.RedisClient, log, waitingRepo, app.Metrics)
		if err := queueService.SyncOnStartup(ctx); err != nil {
			log.Warnf("Failed to sync queue counters: %+v", err)
		}
		ticketer = queueService
	} else {
		ticketer = service.NewDatabaseQueueTicketer(log, waitingRepo, app.Metrics)
	}

	// Initialize usecases
	clinicUsecase := usecase.NewClinicUsecase(db, log, customValidator, guard, auditService, clinicRepo)
	userUsecase := usecase.NewUserUsecase(db, log, customValidator, guard, authorizer, auditService, userRepo, clinicRepo)
	ownerUsecase := usecase.NewOwnerUsecase(db, log, customValidator, guard, auditService, ownerRepo, clinicRepo)
	patientUsecase := usecase.NewPatientUsecase(db, log, customValidator, guard, auditService, app.Metrics, patientRepo, ownerRepo)
	waitingRoomUsecase := usecase.NewWaitingRoomUsecase(db, log, customValidator, guard, auditService, ticketer, patientRepo, waitingRepo)
	clinicalUsecase := usecase.NewClinicalUsecase(db, log, customValidator, guard, auditService, historialService, app.Metrics,
		patientRepo, userRepo, consultationRepo, hospitalizationRepo, waitingRepo)
	labStudyUsecase := usecase.NewLabStudyUsecase(db, log, customValidator, guard, auditService, historialService, patientRepo, labStudyRepo)
	historialUsecase := usecase.NewHistorialUsecase(db, log, guard, patientRepo, historialRepo, consultationRepo, hospitalizationRepo, labStudyRepo)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, guard, auditLogRepo)

	// Initialize handlers
	handlers := deliveryHttp.Handlers{
		Clinic:      handler.NewClinicHandler(clinicUsecase),
		User:        handler.NewUserHandler(userUsecase),
		Owner:       handler.NewOwnerHandler(ownerUsecase),
		Patient:     handler.NewPatientHandler(patientUsecase),
		WaitingRoom: handler.NewWaitingRoomHandler(waitingRoomUsecase),
		Clinical:    handler.NewClinicalHandler(clinicalUsecase),
		LabStudy:    handler.NewLabStudyHandler(labStudyUsecase),
		Historial:   handler.NewHistorialHandler(historialUsecase),
		AuditLog:    handler.NewAuditLogHandler(auditLogUsecase),
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, cfg.Auth, log)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigins)

	// Initialize router
	router := deliveryHttp.NewRouter(handlers, app.Metrics.Handler(), authMiddleware, corsMiddleware, log)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() error {
	errCh := make(chan error, 1)

	// Start server in goroutine
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	return app.waitForShutdown(errCh)
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown(errCh <-chan error) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var serveErr error
	select {
	case <-quit:
	case serveErr = <-errCh:
		app.Log.Errorf("Server stopped: %v", serveErr)
	}

	app.Log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	app.Log.Info("Server shutdown complete")
	return serveErr
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
