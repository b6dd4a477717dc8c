package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/processhub-backend/internal/data/repos"
	"github.com/yungbote/processhub-backend/internal/platform/logger"
)

type Repos struct {
	User        repos.UserRepo
	UserSession repos.UserSessionRepo
	Process     repos.ProcessRepo
	Version     repos.VersionRepo
	Deployment  repos.DeploymentRepo
	Execution   repos.ExecutionRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:        repos.NewUserRepo(db, log),
		UserSession: repos.NewUserSessionRepo(db, log),
		Process:     repos.NewProcessRepo(db, log),
		Version:     repos.NewVersionRepo(db, log),
		Deployment:  repos.NewDeploymentRepo(db, log),
		Execution:   repos.NewExecutionRepo(db, log),
	}
}
