package v1

import (
	"talent-marketplace-backend/config"
	"talent-marketplace-backend/internal/delivery/http/middleware"
	securityhttp "talent-marketplace-backend/internal/delivery/http/security"
	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/pkg/auth"
	"talent-marketplace-backend/pkg/kvstore"
	"talent-marketplace-backend/pkg/security"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC         domain.AuthUsecase
	CandidateUC    domain.CandidateUsecase
	WorkflowUC     domain.ProfileWorkflowUsecase
	JobUC          domain.JobUsecase
	NotificationUC domain.NotificationUsecase
	AdminUC        domain.AdminUsecase
	HealthUC       domain.HealthUsecase
	JWKSProvider   *auth.Provider
	// Store holds rate-limit counters and CSRF tokens shared by all instances.
	Store          kvstore.Store
	SecurityLogger *security.SecurityLogger
	Config         *config.Config

	// SecurityDashboardUC is nil when security events are not persisted.
	SecurityDashboardUC domain.SecurityDashboardUsecase
}

func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	r := gin.New()

	rateLimiter := middleware.NewRateLimiter(deps.Store, deps.SecurityLogger)
	csrf := middleware.NewCSRFProtector(deps.Store, cfg.CSRFTokenTTL, cfg.IsProduction(), deps.SecurityLogger)

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(cfg)) // CORS must be first
	if cfg.SentryDSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.SecurityHeadersMiddleware(cfg.IsProduction()))
	r.Use(middleware.ErrorHandler(deps.SecurityLogger))
	r.Use(rateLimiter.Middleware(middleware.GlobalRateLimitConfig(cfg)))
	r.Use(csrf.Middleware())

	v1 := r.Group("/v1")

	// Public routes
	NewPublicHandler(v1, deps.HealthUC, deps.CandidateUC)
	v1.GET("/csrf-token", csrf.TokenHandler)
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.JWKSProvider, cfg, deps.AuthUC, deps.SecurityLogger))
	{
		candidateOnly := middleware.RequireRole(deps.SecurityLogger, domain.RoleCandidate)
		jobPosters := middleware.RequireRole(deps.SecurityLogger, domain.RoleEmployer, domain.RoleAdmin)
		adminOnly := middleware.RequireRole(deps.SecurityLogger, domain.RoleAdmin)

		NewAuthHandler(protected, deps.AuthUC)
		NewCandidateHandler(protected.Group("/candidates", candidateOnly), deps.CandidateUC, deps.WorkflowUC)
		NewJobHandler(protected.Group("/jobs"), deps.JobUC, candidateOnly, jobPosters)
		NewNotificationHandler(protected.Group("/notifications"), deps.NotificationUC)
		admin := protected.Group("/admin", adminOnly, rateLimiter.Middleware(middleware.AdminRateLimitConfig(cfg)))
		NewAdminHandler(admin, deps.AdminUC, deps.WorkflowUC, deps.SecurityLogger)
		if deps.SecurityDashboardUC != nil {
			securityhttp.NewSecurityDashboardHandler(deps.SecurityDashboardUC).RegisterRoutes(admin.Group("/security"))
		}
	}

	return r
}
