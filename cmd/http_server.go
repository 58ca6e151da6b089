package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/hiring-gateway/internal"
	"github.com/frahmantamala/hiring-gateway/internal/application"
	appPostgrest "github.com/frahmantamala/hiring-gateway/internal/application/postgrest"
	"github.com/frahmantamala/hiring-gateway/internal/auth"
	authPostgrest "github.com/frahmantamala/hiring-gateway/internal/auth/postgrest"
	"github.com/frahmantamala/hiring-gateway/internal/captcha"
	captchaPostgres "github.com/frahmantamala/hiring-gateway/internal/captcha/postgres"
	"github.com/frahmantamala/hiring-gateway/internal/core/events"
	"github.com/frahmantamala/hiring-gateway/internal/department"
	departmentPostgrest "github.com/frahmantamala/hiring-gateway/internal/department/postgrest"
	"github.com/frahmantamala/hiring-gateway/internal/diagnostic"
	"github.com/frahmantamala/hiring-gateway/internal/job"
	jobPostgrest "github.com/frahmantamala/hiring-gateway/internal/job/postgrest"
	"github.com/frahmantamala/hiring-gateway/internal/message"
	messagePostgrest "github.com/frahmantamala/hiring-gateway/internal/message/postgrest"
	"github.com/frahmantamala/hiring-gateway/internal/notification"
	notificationPostgrest "github.com/frahmantamala/hiring-gateway/internal/notification/postgrest"
	"github.com/frahmantamala/hiring-gateway/internal/supabase"
	"github.com/frahmantamala/hiring-gateway/internal/transport"
	"github.com/frahmantamala/hiring-gateway/internal/transport/rest"
	"github.com/frahmantamala/hiring-gateway/internal/transport/swagger"
	"github.com/frahmantamala/hiring-gateway/internal/upload"
	"github.com/frahmantamala/hiring-gateway/internal/upload/objectstore"
	uploadPostgrest "github.com/frahmantamala/hiring-gateway/internal/upload/postgrest"
	"github.com/frahmantamala/hiring-gateway/internal/user"
	userPostgrest "github.com/frahmantamala/hiring-gateway/internal/user/postgrest"
	"github.com/frahmantamala/hiring-gateway/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Access tokens minted by the backend carry this audience.
const tokenAudience = "authenticated"

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config  *internal.Config
	DB      *sqlx.DB
	Backend *supabase.Client
	Events  *events.EventBus
	Captcha *captcha.Service
	Router  *chi.Mux
	Logger  *slog.Logger
}

func startHTTPServer() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := initializeDependencies(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	log := deps.Logger

	go deps.Captcha.RunSweeper(ctx, deps.Config.Captcha.SweepInterval)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	log.Info("Starting HTTP server", "address", addr, "environment", deps.Config.Environment)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("Received signal, shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("Server shutdown error", "error", err)
		}
		if err := deps.Events.Drain(shutdownCtx); err != nil {
			log.Warn("Event handlers still running at shutdown", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	if deps.DB != nil {
		if err := deps.DB.Close(); err != nil {
			log.Error("Database close error", "error", err)
		}
	}
	log.Info("Server stopped")
}

func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Environment, config.Logging.Level, config.Logging.Format)
	log := logger.LoggerWrapper()

	if _, err := swagger.Load(ctx); err != nil {
		return nil, err
	}

	var db *sqlx.DB
	if config.Database.Enabled() {
		db, err = initDB(config.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
	}

	backend := newBackendClient(config, log)

	captchaStore, err := newCaptchaStore(config, db)
	if err != nil {
		return nil, err
	}
	captchaService := captcha.NewService(captchaStore, captcha.Config{
		TTL:         config.Captcha.TTL,
		MaxAttempts: config.Captcha.MaxAttempts,
		HashCost:    config.Captcha.HashCost,
	}, log)

	storage, err := newObjectStorage(ctx, config, backend)
	if err != nil {
		return nil, err
	}

	var verifier auth.TokenVerifier = auth.NewRemoteVerifier(backend)
	if config.Supabase.JWTSecret != "" {
		verifier = auth.NewJWTVerifier(config.Supabase.JWTSecret, tokenAudience)
	}
	authService := auth.NewService(backend, verifier, authPostgrest.NewRoleRepository(backend), log)

	eventBus := events.NewEventBus(log)
	notificationService := notification.NewService(notificationPostgrest.NewNotificationRepository(backend), log)
	eventBus.Subscribe(events.EventTypeApplicationSubmitted, notificationService.OnApplicationSubmitted)
	eventBus.Subscribe(events.EventTypeApplicationStatusChanged, notificationService.OnApplicationStatusChanged)

	jobService := job.NewService(jobPostgrest.NewJobRepository(backend), log)
	departmentService := department.NewService(departmentPostgrest.NewDepartmentRepository(backend), log)
	applicationService := application.NewService(appPostgrest.NewApplicationRepository(backend), eventBus, log)
	userService := user.NewService(userPostgrest.NewUserRepository(backend), log)
	messageService := message.NewService(messagePostgrest.NewMessageRepository(backend), log)
	uploadService := upload.NewService(storage, uploadPostgrest.NewMetadataRepository(backend), upload.Config{
		ResumeBucket: config.Storage.ResumeBucket,
		AvatarBucket: config.Storage.AvatarBucket,
		SignedURLTTL: config.Storage.SignedURLTTL,
	}, log)

	checks := map[string]rest.Checker{"backend": backend}
	if db != nil {
		checks["database"] = rest.CheckerFunc(db.PingContext)
	}

	base := transport.NewBaseHandler(log)
	pagination := config.Pagination
	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, rest.Handlers{
		Health:       rest.NewHealthHandler(base, checks),
		Diagnostic:   diagnostic.NewHandler(base, backend, config),
		Auth:         auth.NewHandler(base, authService),
		Job:          job.NewHandler(base, jobService, pagination),
		Department:   department.NewHandler(base, departmentService),
		Application:  application.NewHandler(base, applicationService, pagination),
		Upload:       upload.NewHandler(base, uploadService),
		Notification: notification.NewHandler(base, notificationService, pagination),
		Message:      message.NewHandler(base, messageService, pagination),
		Captcha:      captcha.NewHandler(base, captchaService),
		User:         user.NewHandler(base, userService),
	}, authService, config.Server.AllowedOrigins, log)

	return &Dependencies{
		Config:  config,
		DB:      db,
		Backend: backend,
		Events:  eventBus,
		Captcha: captchaService,
		Router:  router,
		Logger:  log,
	}, nil
}

func newBackendClient(cfg *internal.Config, log *slog.Logger) *supabase.Client {
	return supabase.NewClient(supabase.Config{
		URL:            cfg.Supabase.URL,
		AnonKey:        cfg.Supabase.AnonKey,
		ServiceRoleKey: cfg.Supabase.ServiceRoleKey,
		Timeout:        cfg.Supabase.RequestTimeout,
	}, log)
}

func newObjectStorage(ctx context.Context, cfg *internal.Config, backend *supabase.Client) (upload.Storage, error) {
	if cfg.Storage.Driver != internal.StorageDriverS3 {
		return objectstore.NewSupabase(backend), nil
	}
	store, err := objectstore.NewS3(ctx, objectstore.S3Config{
		Endpoint:  cfg.Storage.S3.Endpoint,
		Region:    cfg.Storage.S3.Region,
		AccessID:  cfg.Storage.S3.AccessID,
		AccessKey: cfg.Storage.S3.AccessKey,
		PublicURL: cfg.Storage.S3.PublicURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize s3 storage: %w", err)
	}
	return store, nil
}

func newCaptchaStore(cfg *internal.Config, db *sqlx.DB) (captcha.Store, error) {
	if cfg.Captcha.Store != internal.CaptchaStorePostgres {
		return captcha.NewMemoryStore(), nil
	}
	gdb, err := openGorm(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize captcha store: %w", err)
	}
	return captchaPostgres.NewSessionStore(gdb), nil
}

// openGorm shares the sqlx pool instead of opening a second one.
func openGorm(db *sqlx.DB) (*gorm.DB, error) {
	if db == nil {
		return nil, errors.New("database is not configured")
	}
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return dbConn, nil
}
