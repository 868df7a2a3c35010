package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/arthavgonda/timetable-gateway/api/swagger"
	"github.com/arthavgonda/timetable-gateway/internal/handler"
	"github.com/arthavgonda/timetable-gateway/internal/middleware"
	"github.com/arthavgonda/timetable-gateway/internal/repository"
	"github.com/arthavgonda/timetable-gateway/internal/service"
	"github.com/arthavgonda/timetable-gateway/internal/upstream"
	"github.com/arthavgonda/timetable-gateway/pkg/cache"
	"github.com/arthavgonda/timetable-gateway/pkg/config"
	"github.com/arthavgonda/timetable-gateway/pkg/logger"
	corsmiddleware "github.com/arthavgonda/timetable-gateway/pkg/middleware/cors"
	reqidmiddleware "github.com/arthavgonda/timetable-gateway/pkg/middleware/requestid"
)

// @title Timetable Gateway API
// @version 0.1.0
// @description Backend-for-frontend gateway for the timetable dashboard
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metricsSvc := service.NewMetricsService()

	// Redis is optional; without it the gateway falls back to a per-process
	// cache so a missing broker never blocks startup.
	var cacheRepo service.CacheRepository
	if redisClient, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Sugar().Warnw("redis unavailable, using in-memory cache", "error", err)
		cacheRepo = repository.NewMemoryCacheRepository()
	} else {
		cacheRepo = repository.NewRedisCacheRepository(redisClient, logr)
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, cfg.Cache.Enabled)

	client := upstream.NewClient(upstream.ClientConfig{
		BaseURL: cfg.Upstream.BaseURL,
		Timeout: cfg.Upstream.Timeout,
		Logger:  logr,
		Observe: metricsSvc.ObserveUpstreamRequest,
	})

	validate := validator.New()
	generationSvc := service.NewGenerationService(client, validate, logr, metricsSvc, service.GenerationServiceConfig{
		Poller: service.PollerConfig{
			InitialDelay: cfg.Poller.InitialDelay,
			Interval:     cfg.Poller.Interval,
			MaxAttempts:  cfg.Poller.MaxAttempts,
		},
		TaskTTL: cfg.Poller.TaskTTL,
	})
	viewsSvc := service.NewViewsService(client, cacheSvc, logr, service.ViewsServiceConfig{CacheTTL: cfg.Cache.TTL})

	generationHandler := handler.NewGenerationHandler(generationSvc)
	viewsHandler := handler.NewViewsHandler(viewsSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/timetable/:date", viewsHandler.Timetable)
		api.GET("/timetable/generate/tasks/:id", generationHandler.Status)
		api.GET("/views/teacher-workload", viewsHandler.TeacherWorkload)
		api.GET("/views/room-utilization", viewsHandler.RoomUtilization)
		api.GET("/views/room-conflicts", viewsHandler.RoomConflicts)

		authed := api.Group("", middleware.Auth(cfg.JWT.Secret))
		authed.POST("/timetable/generate", generationHandler.Start)
		authed.DELETE("/timetable/generate/tasks/:id", generationHandler.Cancel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	refreshers := armRefreshers(ctx, cfg, viewsSvc, logr, metricsSvc)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	for _, refresher := range refreshers {
		refresher.Stop()
	}
	generationSvc.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Warnw("server shutdown failed", "error", err)
	}
}

// armRefreshers starts the background read-view refreshers. Each instance owns
// its own timer; they never share mutable state.
func armRefreshers(ctx context.Context, cfg *config.Config, viewsSvc *service.ViewsService, logr *zap.Logger, metricsSvc *service.MetricsService) []*service.Refresher {
	if !cfg.Refresh.Enabled {
		return nil
	}

	notifier := service.LogNotifier{Logger: logr}

	timetableRefresher := service.NewRefresher(service.RefresherConfig{
		Resource:          "timetable",
		Interval:          cfg.Refresh.TimetableInterval,
		Enabled:           true,
		ShowNotifications: cfg.Refresh.ShowNotifications,
		NotificationTTL:   cfg.Refresh.NotificationTTL,
	}, func(ctx context.Context) error {
		return viewsSvc.RefreshTimetable(ctx, time.Now().Format("02-01-2006"))
	}, notifier, logr, metricsSvc)

	availabilityRefresher := service.NewRefresher(service.RefresherConfig{
		Resource:          "teacher_availability",
		Interval:          cfg.Refresh.AvailabilityInterval,
		Enabled:           true,
		ShowNotifications: cfg.Refresh.ShowNotifications,
		NotificationTTL:   cfg.Refresh.NotificationTTL,
	}, viewsSvc.RefreshAvailability, notifier, logr, metricsSvc)

	timetableRefresher.Start(ctx)
	availabilityRefresher.Start(ctx)
	return []*service.Refresher{timetableRefresher, availabilityRefresher}
}
