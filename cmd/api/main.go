package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"talent-marketplace-backend/config"
	_ "talent-marketplace-backend/docs" // registers the swagger spec
	v1 "talent-marketplace-backend/internal/delivery/http/v1"
	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/internal/repository/postgres"
	"talent-marketplace-backend/internal/usecase"
	"talent-marketplace-backend/pkg/auth"
	"talent-marketplace-backend/pkg/database"
	"talent-marketplace-backend/pkg/email"
	"talent-marketplace-backend/pkg/kvstore"
	"talent-marketplace-backend/pkg/logger"
	"talent-marketplace-backend/pkg/redis"
	"talent-marketplace-backend/pkg/security"
	"talent-marketplace-backend/pkg/validation"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
)

// @title           Talent Marketplace API
// @version         1.0
// @description     Candidate profiles with readiness scoring, admin review workflow and skill-matched jobs.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// 2. Setup Loggers
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting talent marketplace backend", "port", cfg.Port, "env", cfg.AppEnv)
	secLog := security.InitSecurityLogger("talent-marketplace-api", cfg.AppEnv)
	defer func() { _ = secLog.Sync() }()

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.AppEnv,
			AttachStacktrace: true,
		}); err != nil {
			log.Fatalf("sentry.Init: %s", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	// 3. Setup Database
	ctx := context.Background()
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl, database.DefaultPoolConfig())
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if cfg.AutoMigrate {
		if err := database.ApplySchema(ctx, dbPool); err != nil {
			logger.Log.Error("Failed to apply schema", "error", err)
			os.Exit(1)
		}
		logger.Log.Info("Database schema applied")
	}

	if cfg.SecurityLogToDB {
		secLog.SetPersistFunc(security.NewSecurityEventRepository(dbPool).PersistEvent)
	}

	// 4. Shared TTL store (Redis, or process memory when not configured)
	var redisCheck func(context.Context) error
	if cfg.RedisURL != "" {
		if err := redis.Initialize(ctx, redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
			logger.Log.Warn("Redis unavailable, using in-memory store", "error", err)
		} else {
			redisCheck = redis.HealthCheck
		}
	}
	defer func() { _ = redis.Close() }()
	store := kvstore.New(redis.Client())

	// 5. Setup Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	candidateRepo := postgres.NewCandidateRepository(dbPool)
	jobRepo := postgres.NewJobRepository(dbPool)
	notificationRepo := postgres.NewNotificationRepository(dbPool)
	auditRepo := postgres.NewAuditLogRepository(dbPool)

	// 6. Setup Email Service (optional copy of in-app notifications)
	var mailer usecase.NotificationMailer
	if cfg.SMTPConfigured() {
		mailer = email.NewEmailService(cfg)
	} else {
		logger.Log.Warn("SMTP not configured - notifications are in-app only")
	}

	// 7. Setup UseCases
	validate := validation.New()
	authUC := usecase.NewAuthUsecase(userRepo)
	candidateUC := usecase.NewCandidateUsecase(candidateRepo, validate)
	notificationUC := usecase.NewNotificationUsecase(notificationRepo, userRepo, mailer)
	workflowUC := usecase.NewProfileWorkflowUsecase(candidateRepo, notificationUC, auditRepo)
	jobUC := usecase.NewJobUsecase(jobRepo, candidateRepo, validate)
	adminUC := usecase.NewAdminUsecase(candidateRepo, auditRepo)
	healthUC := usecase.NewHealthUsecase(dbPool, redisCheck)
	var securityDashboardUC domain.SecurityDashboardUsecase
	if cfg.SecurityLogToDB {
		securityDashboardUC = usecase.NewSecurityDashboardUsecase(postgres.NewSecurityDashboardRepository(dbPool))
	}

	// 8. Setup Auth Provider (JWKS)
	var jwksProvider *auth.Provider
	if cfg.SupabaseUrl != "" {
		jwksProvider = auth.NewProvider(auth.SupabaseJWKSURL(cfg.SupabaseUrl))
	}

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:         authUC,
		CandidateUC:    candidateUC,
		WorkflowUC:     workflowUC,
		JobUC:          jobUC,
		NotificationUC: notificationUC,
		AdminUC:        adminUC,
		HealthUC:       healthUC,
		JWKSProvider:   jwksProvider,
		Store:          store,
		SecurityLogger: secLog,
		Config:         cfg,

		SecurityDashboardUC: securityDashboardUC,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
