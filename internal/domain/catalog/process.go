package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ProcessType string

const (
	ProcessTypeLLM ProcessType = "llm"
	ProcessTypeML  ProcessType = "ml"
)

func (t ProcessType) Valid() bool {
	return t == ProcessTypeLLM || t == ProcessTypeML
}

type Process struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string         `gorm:"not null;column:name" json:"name"`
	Description   string         `gorm:"not null;column:description" json:"description"`
	Type          ProcessType    `gorm:"not null;column:type;index" json:"type"`
	RepositoryURL string         `gorm:"not null;column:repository_url" json:"repositoryUrl"`
	Metadata      datatypes.JSON `gorm:"column:metadata" json:"metadata"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index;column:user_id" json:"userId"`
	CreatedAt     time.Time      `gorm:"not null;index" json:"createdAt"`
	UpdatedAt     time.Time      `gorm:"not null" json:"updatedAt"`
}

func (Process) TableName() string { return "process" }
