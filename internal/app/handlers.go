package app

import (
	"github.com/yungbote/processhub-backend/internal/http"
	httpH "github.com/yungbote/processhub-backend/internal/http/handlers"
	httpMW "github.com/yungbote/processhub-backend/internal/http/middleware"
	"github.com/yungbote/processhub-backend/internal/http/session"
	"github.com/yungbote/processhub-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health     *httpH.HealthHandler
	Auth       *httpH.AuthHandler
	User       *httpH.UserHandler
	Process    *httpH.ProcessHandler
	Deployment *httpH.DeploymentHandler
	Execution  *httpH.ExecutionHandler
}

func wireHandlers(log *logger.Logger, cfg Config, services Services, clients Clients) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(),
		Auth:       httpH.NewAuthHandler(log, services.Auth, session.CookieOptions{Secure: cfg.CookieSecure, Domain: cfg.CookieDomain}),
		User:       httpH.NewUserHandler(log, services.Auth),
		Process:    httpH.NewProcessHandler(log, services.Process, services.Execution),
		Deployment: httpH.NewDeploymentHandler(log, services.Deployment),
		Execution: httpH.NewExecutionHandlerWithDeps(httpH.ExecutionHandlerDeps{
			Log:            log,
			Executions:     services.Execution,
			Metrics:        clients.Metrics,
			MaxUploadBytes: cfg.MaxUploadBytes,
		}),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireServer(log *logger.Logger, cfg Config, clients Clients, handlers Handlers, middleware Middleware) *http.Server {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return http.NewServer(http.RouterConfig{
		Log:               log,
		ServiceName:       serviceName,
		AllowedOrigins:    cfg.AllowedOrigins,
		Metrics:           clients.Metrics,
		HealthHandler:     handlers.Health,
		AuthHandler:       handlers.Auth,
		AuthMiddleware:    middleware.Auth,
		UserHandler:       handlers.User,
		ProcessHandler:    handlers.Process,
		DeploymentHandler: handlers.Deployment,
		ExecutionHandler:  handlers.Execution,
	})
}
