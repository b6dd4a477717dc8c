package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/processhub-backend/internal/platform/logger"
	"github.com/yungbote/processhub-backend/internal/services"
)

type Services struct {
	Auth       services.AuthService
	Process    services.ProcessService
	Deployment services.DeploymentService
	Execution  services.ExecutionService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, c Clients) Services {
	log.Info("Wiring services...")
	return Services{
		Auth:       services.NewAuthService(db, log, r.User, r.UserSession, cfg.SessionSecret, cfg.SessionTTL()),
		Process:    services.NewProcessService(db, log, r.Process, r.Version),
		Deployment: services.NewDeploymentService(db, log, r.Version, r.Deployment, r.Execution, c.Bus),
		Execution:  services.NewExecutionService(db, log, r.Process, r.Deployment, r.Execution, c.Store, c.Bus),
	}
}
