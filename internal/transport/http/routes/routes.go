package routes

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/arklim/selfstudy-web/internal/infra/config"
	"github.com/arklim/selfstudy-web/internal/transport/http/handlers"
	"github.com/arklim/selfstudy-web/internal/transport/http/middleware"
	"github.com/arklim/selfstudy-web/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Sessions    *usecase.SessionService
	Profiles    *usecase.ProfileService
	Courses     *usecase.CourseService
	Assessments *usecase.AssessmentService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Metrics     *middleware.HTTPMetrics
	Services    ServiceSet
	Upstream    UpstreamChecker
}

// UpstreamChecker exposes readiness behaviour for the learning platform.
type UpstreamChecker interface {
	Ping(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.CORS(deps.Config.CORS.AllowedOrigins))

	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	healthOptions := make([]handlers.HealthOption, 0, 1)
	if deps.Upstream != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("platform", deps.Upstream.Ping))
	}
	healthHandler := handlers.NewHealthHandler(healthOptions...)

	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	mapper := handlers.NewErrorMapper(deps.Services.Sessions)

	authHandler := handlers.NewAuthHandler(deps.Services.Sessions, deps.Services.Profiles, mapper)
	profileHandler := handlers.NewProfileHandler(deps.Services.Profiles, mapper)
	courseHandler := handlers.NewCourseHandler(deps.Services.Courses, mapper)
	assessmentHandler := handlers.NewAssessmentHandler(deps.Services.Assessments, mapper)

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		authHandler.RegisterRoutes(authGroup, buildLoginMiddlewares(deps)...)

		// The catalogue and the teachers list render without a session.
		courseHandler.RegisterPublicRoutes(api)
		profileHandler.RegisterPublicRoutes(api)

		protected := api.Group("")
		protected.Use(middleware.RequireSession(deps.Services.Sessions))
		courseHandler.RegisterRoutes(protected)
		assessmentHandler.RegisterRoutes(protected)
		profileHandler.RegisterRoutes(protected)
	}

	return r
}

func buildLoginMiddlewares(deps Dependencies) []gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil {
		return nil
	}

	limit := deps.Config.RateLimit.LoginMaxAttempts
	if limit <= 0 {
		return nil
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = time.Minute
	}

	rule := middleware.RateLimitRule{
		Name:       "auth_login_ip",
		Limit:      limit,
		Window:     window,
		Identifier: middleware.ClientIPIdentifier(),
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rule)}
}
