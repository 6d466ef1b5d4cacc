package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arklim/selfstudy-web/internal/core/port"
	"github.com/arklim/selfstudy-web/internal/infra/config"
	"github.com/arklim/selfstudy-web/internal/infra/logger"
	"github.com/arklim/selfstudy-web/internal/repository/file"
	"github.com/arklim/selfstudy-web/internal/repository/memory"
	"github.com/arklim/selfstudy-web/internal/transport/http/middleware"
	"github.com/arklim/selfstudy-web/internal/transport/http/routes"
	"github.com/arklim/selfstudy-web/internal/upstream"
	"github.com/arklim/selfstudy-web/internal/usecase"
)

type Application struct {
	cfg    *config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
}

func New(cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	sessionPath := cfg.Session.Path
	if sessionPath == "" {
		sessionPath, err = file.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("resolve session path: %w", err)
		}
	}
	var store port.SessionStore = file.NewSessionStore(sessionPath)

	client := upstream.NewClient(cfg.Platform.BaseURL, cfg.Platform.Timeout, store, log)

	sessionService := usecase.NewSessionService(store, client, client, log)
	profileService := usecase.NewProfileService(client, log)
	courseService := usecase.NewCourseService(client, sessionService, log)
	assessmentService := usecase.NewAssessmentService(client, log)

	rateLimiter := middleware.NewRateLimiter(memory.NewRateLimitStore(), log)

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	engine := routes.Register(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		RateLimiter: rateLimiter,
		Metrics:     metrics,
		Upstream:    client,
		Services: routes.ServiceSet{
			Sessions:    sessionService,
			Profiles:    profileService,
			Courses:     courseService,
			Assessments: assessmentService,
		},
	})

	return &Application{
		cfg:    cfg,
		engine: engine,
		logger: log,
	}, nil
}

func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting selfstudy web gateway",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
		zap.String("platform", a.cfg.Platform.BaseURL),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
