package router

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"project-planner-api/internal/docstore"
	"project-planner-api/internal/handler"
	"project-planner-api/internal/metrics"
	"project-planner-api/internal/middleware"
	"project-planner-api/internal/notifier"
	"project-planner-api/internal/service"
)

// Config holds router configuration
type Config struct {
	Store  *docstore.Store
	Hub    *notifier.Hub
	Redis  *redis.Client
	Logger *zap.Logger

	// Notifier receives every accepted mutation; nil means the hub itself
	Notifier service.ChangeNotifier

	Metrics *metrics.Metrics
	// Gatherer backs /metrics; nil means the default registry
	Gatherer prometheus.Gatherer

	BasePath       string
	JWTSecret      string
	AllowedOrigins []string
}

// Setup sets up the router with all routes and middleware
func Setup(cfg Config) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	notify := cfg.Notifier
	if notify == nil && cfg.Hub != nil {
		notify = cfg.Hub
	}

	projectService := service.NewProjectService(cfg.Store, notify, cfg.Metrics, cfg.Logger)
	issueService := service.NewIssueService(cfg.Store, notify, cfg.Metrics, cfg.Logger)
	sprintService := service.NewSprintService(cfg.Store, notify, cfg.Logger)
	pageService := service.NewPageService(cfg.Store, notify, cfg.Logger)

	projectHandler := handler.NewProjectHandler(projectService, cfg.Logger)
	issueHandler := handler.NewIssueHandler(issueService, cfg.Logger)
	sprintHandler := handler.NewSprintHandler(sprintService, cfg.Logger)
	pageHandler := handler.NewPageHandler(pageService, cfg.Logger)
	healthHandler := handler.NewHealthHandler(cfg.Store.DB(), cfg.Redis)

	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	metricsHandler := gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// Probes and metrics (no auth)
	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)
	r.GET("/metrics", metricsHandler)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	basePath := strings.TrimRight(cfg.BasePath, "/")
	api := r.Group(basePath)
	if basePath != "" {
		api.GET("/health", healthHandler.Health)
		api.GET("/ready", healthHandler.Ready)
		api.GET("/metrics", metricsHandler)
	}

	// sync events carry no data, and browsers cannot set headers on a websocket handshake
	if cfg.Hub != nil {
		api.GET("/ws", handler.NewWSHandler(cfg.Hub).Subscribe)
	}

	if cfg.JWTSecret != "" {
		api.Use(middleware.Auth(cfg.JWTSecret))
	}

	projects := api.Group("/projects")
	{
		projects.GET("", projectHandler.ListProjects)
		projects.POST("", projectHandler.CreateProject)
		projects.PUT("/sync", projectHandler.SyncProjects)
		projects.GET("/:projectId", projectHandler.GetProject)
		projects.PATCH("/:projectId", projectHandler.UpdateProject)
		projects.DELETE("/:projectId", projectHandler.DeleteProject)
		projects.GET("/:projectId/summary", projectHandler.GetBoardSummary)

		projects.GET("/:projectId/issues", issueHandler.ListIssues)
		projects.POST("/:projectId/issues", issueHandler.CreateIssue)
		projects.GET("/:projectId/issues/:issueRef", issueHandler.GetIssue)
		projects.PATCH("/:projectId/issues/:issueRef", issueHandler.UpdateIssue)
		projects.DELETE("/:projectId/issues/:issueRef", issueHandler.DeleteIssue)

		projects.GET("/:projectId/sprints", sprintHandler.ListSprints)
		projects.POST("/:projectId/sprints", sprintHandler.CreateSprint)
		projects.PATCH("/:projectId/sprints/:sprintId", sprintHandler.UpdateSprint)
		projects.DELETE("/:projectId/sprints/:sprintId", sprintHandler.DeleteSprint)

		projects.GET("/:projectId/pages", pageHandler.ListPages)
		projects.POST("/:projectId/pages", pageHandler.CreatePage)
		projects.PATCH("/:projectId/pages/:pageId", pageHandler.UpdatePage)
		projects.DELETE("/:projectId/pages/:pageId", pageHandler.DeletePage)
	}

	return r
}
