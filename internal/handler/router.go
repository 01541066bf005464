package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/traintrackhq/traintrack-api/internal/middleware"
	"github.com/traintrackhq/traintrack-api/internal/policy"
	"github.com/traintrackhq/traintrack-api/internal/service"
	"github.com/traintrackhq/traintrack-api/pkg/config"
	"github.com/traintrackhq/traintrack-api/pkg/logger"
	corsmiddleware "github.com/traintrackhq/traintrack-api/pkg/middleware/cors"
	reqidmiddleware "github.com/traintrackhq/traintrack-api/pkg/middleware/requestid"
)

// Services bundles everything the router mounts.
type Services struct {
	Auth      *service.AuthService
	Users     *service.UserService
	Trainers  *service.TrainerService
	Batches   *service.BatchService
	Logs      *service.LogService
	Dashboard *service.DashboardService
	Reports   *service.ReportService
	Metrics   *service.MetricsService
}

// NewRouter assembles the gin engine: ambient middleware, liveness
// endpoints and every authenticated route behind its policy guard.
func NewRouter(cfg *config.Config, logr *zap.Logger, svcs Services) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(svcs.Metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	if svcs.Metrics != nil {
		r.GET("/metrics", gin.WrapH(svcs.Metrics.Handler()))
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authHandler := NewAuthHandler(svcs.Auth)
	dashboardHandler := NewDashboardHandler(svcs.Dashboard)
	trainerHandler := NewTrainerHandler(svcs.Trainers)
	batchHandler := NewBatchHandler(svcs.Batches, svcs.Logs)
	logHandler := NewLogHandler(svcs.Logs)
	reportHandler := NewReportHandler(svcs.Reports)
	userHandler := NewUserHandler(svcs.Users)

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("", middleware.JWT(svcs.Auth))

	authed.GET("/", middleware.Guard(policy.OpViewDashboard), dashboardHandler.View)

	authed.GET("/trainers", middleware.Guard(policy.OpViewDashboard), trainerHandler.List)
	authed.GET("/trainers/:id", middleware.Guard(policy.OpViewDashboard), trainerHandler.Get)
	authed.POST("/trainers", middleware.Guard(policy.OpSelfRegisterTrainer), trainerHandler.SelfRegister)
	authed.POST("/trainers/admin", middleware.Guard(policy.OpIssueTrainer), trainerHandler.Issue)
	authed.PUT("/trainers/:id", middleware.Guard(policy.OpEditTrainer), trainerHandler.Update)
	authed.DELETE("/trainers/:id", middleware.Guard(policy.OpDeleteTrainer), trainerHandler.Delete)

	authed.GET("/batches", middleware.Guard(policy.OpViewDashboard), batchHandler.List)
	authed.GET("/batches/:id", middleware.Guard(policy.OpViewDashboard), batchHandler.Get)
	authed.GET("/batches/:id/logs", middleware.Guard(policy.OpViewDashboard), logHandler.ListForBatch)
	authed.POST("/batches", middleware.Guard(policy.OpManageBatches), batchHandler.Create)
	authed.PUT("/batches/:id", middleware.Guard(policy.OpManageBatches), batchHandler.Update)

	authed.POST("/logs", middleware.Guard(policy.OpAddLog), logHandler.Create)

	authed.GET("/reports/weekly", middleware.Guard(policy.OpViewReports), reportHandler.Weekly)

	authed.GET("/users", middleware.Guard(policy.OpManageUsers), userHandler.List)
	authed.POST("/users/:id/role", middleware.Guard(policy.OpManageUsers), userHandler.SetRole)

	return r
}
