package repos

import (
	"github.com/yungbote/processhub-backend/internal/data/repos/auth"
	"github.com/yungbote/processhub-backend/internal/data/repos/catalog"
	"github.com/yungbote/processhub-backend/internal/data/repos/user"
	"github.com/yungbote/processhub-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type UserRepo = user.UserRepo
type UserSessionRepo = auth.UserSessionRepo

type ProcessRepo = catalog.ProcessRepo
type VersionRepo = catalog.VersionRepo
type DeploymentRepo = catalog.DeploymentRepo
type ExecutionRepo = catalog.ExecutionRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return user.NewUserRepo(db, baseLog)
}

func NewUserSessionRepo(db *gorm.DB, baseLog *logger.Logger) UserSessionRepo {
	return auth.NewUserSessionRepo(db, baseLog)
}

func NewProcessRepo(db *gorm.DB, baseLog *logger.Logger) ProcessRepo {
	return catalog.NewProcessRepo(db, baseLog)
}

func NewVersionRepo(db *gorm.DB, baseLog *logger.Logger) VersionRepo {
	return catalog.NewVersionRepo(db, baseLog)
}

func NewDeploymentRepo(db *gorm.DB, baseLog *logger.Logger) DeploymentRepo {
	return catalog.NewDeploymentRepo(db, baseLog)
}

func NewExecutionRepo(db *gorm.DB, baseLog *logger.Logger) ExecutionRepo {
	return catalog.NewExecutionRepo(db, baseLog)
}
