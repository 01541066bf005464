package main

import (
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"

	_ "github.com/traintrackhq/traintrack-api/api/swagger"
	"github.com/traintrackhq/traintrack-api/internal/handler"
	"github.com/traintrackhq/traintrack-api/internal/repository"
	"github.com/traintrackhq/traintrack-api/internal/service"
	"github.com/traintrackhq/traintrack-api/pkg/cache"
	"github.com/traintrackhq/traintrack-api/pkg/config"
	"github.com/traintrackhq/traintrack-api/pkg/database"
	"github.com/traintrackhq/traintrack-api/pkg/logger"
)

// @title TrainTrack API
// @version 1.0.0
// @description Trainer, batch and daily class log tracking service
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metricsService := service.NewMetricsService()

	var cacheService *service.CacheService
	if cfg.Dashboard.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, dashboard cache disabled", "error", err)
		} else {
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			defer cacheRepo.Close() //nolint:errcheck
			cacheService = service.NewCacheService(cacheRepo, metricsService, cfg.Dashboard.CacheTTL, logr, true)
		}
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	trainerRepo := repository.NewTrainerRepository(db)
	batchRepo := repository.NewBatchRepository(db)
	logRepo := repository.NewLogRepository(db)

	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	userService := service.NewUserService(userRepo, validate, logr)
	trainerService := service.NewTrainerService(trainerRepo, userService, validate, logr)
	batchService := service.NewBatchService(batchRepo, trainerRepo, validate, logr)
	logService := service.NewLogService(logRepo, trainerRepo, batchRepo, validate, logr)
	dashboardService := service.NewDashboardService(trainerRepo, batchRepo, logRepo, cacheService, cfg.Dashboard.CacheTTL, logr)
	reportService := service.NewReportService(logRepo, trainerRepo, cfg.Reports.WindowDays, logr)

	trainerService.SetDashboardInvalidator(dashboardService)
	batchService.SetDashboardInvalidator(dashboardService)
	logService.SetDashboardInvalidator(dashboardService)

	router := handler.NewRouter(cfg, logr, handler.Services{
		Auth:      authService,
		Users:     userService,
		Trainers:  trainerService,
		Batches:   batchService,
		Logs:      logService,
		Dashboard: dashboardService,
		Reports:   reportService,
		Metrics:   metricsService,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := router.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
