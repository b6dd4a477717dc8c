package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ExecutionStatus string

const (
	ExecutionStatusPending   ExecutionStatus = "pending"
	ExecutionStatusRunning   ExecutionStatus = "running"
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusFailed    ExecutionStatus = "failed"
)

func (s ExecutionStatus) Valid() bool {
	switch s {
	case ExecutionStatusPending, ExecutionStatusRunning, ExecutionStatusCompleted, ExecutionStatusFailed:
		return true
	default:
		return false
	}
}

// Terminal reports whether completedAt must be set for s.
func (s ExecutionStatus) Terminal() bool {
	return s == ExecutionStatusCompleted || s == ExecutionStatusFailed
}

type InputType string

const (
	InputTypeDirect   InputType = "direct"
	InputTypeFile     InputType = "file"
	InputTypeBigQuery InputType = "bigquery"
)

func (t InputType) Valid() bool {
	return t == InputTypeDirect || t == InputTypeFile || t == InputTypeBigQuery
}

// Execution records one invocation. DeploymentID is nil only for the legacy
// process-level executions, which set ProcessID instead. UserID is the caller
// that triggered it and scopes every read.
type Execution struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	DeploymentID  *uuid.UUID      `gorm:"type:uuid;index;column:deployment_id" json:"deploymentId"`
	ProcessID     *uuid.UUID      `gorm:"type:uuid;index;column:process_id" json:"processId,omitempty"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index;column:user_id" json:"userId"`
	Status        ExecutionStatus `gorm:"not null;index;column:status" json:"status"`
	InputType     InputType       `gorm:"not null;column:input_type" json:"inputType"`
	InputSource   string          `gorm:"not null;type:text;column:input_source" json:"inputSource"`
	InputMetadata datatypes.JSON  `gorm:"column:input_metadata" json:"inputMetadata"`
	Output        datatypes.JSON  `gorm:"column:output" json:"output"`
	StartedAt     time.Time       `gorm:"not null;index;column:started_at" json:"startedAt"`
	CompletedAt   *time.Time      `gorm:"column:completed_at" json:"completedAt"`
}

func (Execution) TableName() string { return "execution" }
