package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/processhub-backend/internal/http/handlers"
	httpMW "github.com/yungbote/processhub-backend/internal/http/middleware"
	"github.com/yungbote/processhub-backend/internal/observability"
	"github.com/yungbote/processhub-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string
	Metrics        *observability.Metrics

	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware
	UserHandler    *httpH.UserHandler

	ProcessHandler    *httpH.ProcessHandler
	DeploymentHandler *httpH.DeploymentHandler
	ExecutionHandler  *httpH.ExecutionHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
		}
	}

	protected := api.Group("/")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Auth (protected)
		if cfg.AuthHandler != nil {
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		// User (Me)
		if cfg.UserHandler != nil {
			protected.GET("/user", cfg.UserHandler.GetMe)
		}

		// Processes and versions
		if cfg.ProcessHandler != nil {
			protected.GET("/processes", cfg.ProcessHandler.ListProcesses)
			protected.POST("/processes", cfg.ProcessHandler.CreateProcess)
			protected.GET("/processes/:id", cfg.ProcessHandler.GetProcess)
			protected.POST("/processes/:id/versions", cfg.ProcessHandler.CreateVersion)
			protected.POST("/processes/:id/execute", cfg.ProcessHandler.ExecuteProcess)
		}

		// Deployments
		if cfg.DeploymentHandler != nil {
			protected.GET("/versions/:id/deployments", cfg.DeploymentHandler.ListVersionDeployments)
			protected.POST("/versions/:id/deploy", cfg.DeploymentHandler.Deploy)
			protected.GET("/deployments", cfg.DeploymentHandler.ListDeployments)
			protected.PATCH("/deployments/:id/status", cfg.DeploymentHandler.UpdateStatus)
			protected.DELETE("/deployments/:id", cfg.DeploymentHandler.DeleteDeployment)
		}

		// Executions
		if cfg.ExecutionHandler != nil {
			protected.POST("/deployments/:id/execute", cfg.ExecutionHandler.Execute)
			protected.GET("/deployments/:id/executions", cfg.ExecutionHandler.ListDeploymentExecutions)
			protected.GET("/executions/:id", cfg.ExecutionHandler.GetExecution)
			protected.GET("/executions/:id/input", cfg.ExecutionHandler.DownloadInput)
		}
	}

	return r
}
