package domain

import (
	"github.com/yungbote/processhub-backend/internal/domain/auth"
	"github.com/yungbote/processhub-backend/internal/domain/catalog"
	"github.com/yungbote/processhub-backend/internal/domain/user"
)

type User = user.User
type UserSession = auth.UserSession

type Process = catalog.Process
type ProcessType = catalog.ProcessType
type Version = catalog.Version
type Deployment = catalog.Deployment
type DeploymentStatus = catalog.DeploymentStatus
type Execution = catalog.Execution
type ExecutionStatus = catalog.ExecutionStatus
type InputType = catalog.InputType

const (
	ProcessTypeLLM = catalog.ProcessTypeLLM
	ProcessTypeML  = catalog.ProcessTypeML

	DeploymentStatusActive   = catalog.DeploymentStatusActive
	DeploymentStatusInactive = catalog.DeploymentStatusInactive

	ExecutionStatusPending   = catalog.ExecutionStatusPending
	ExecutionStatusRunning   = catalog.ExecutionStatusRunning
	ExecutionStatusCompleted = catalog.ExecutionStatusCompleted
	ExecutionStatusFailed    = catalog.ExecutionStatusFailed

	InputTypeDirect   = catalog.InputTypeDirect
	InputTypeFile     = catalog.InputTypeFile
	InputTypeBigQuery = catalog.InputTypeBigQuery
)

// Models lists every table, in dependency order, for auto-migration.
func Models() []any {
	return []any{
		&User{},
		&UserSession{},
		&Process{},
		&Version{},
		&Deployment{},
		&Execution{},
	}
}
