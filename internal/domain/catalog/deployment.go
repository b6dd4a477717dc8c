package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type DeploymentStatus string

const (
	DeploymentStatusActive   DeploymentStatus = "active"
	DeploymentStatusInactive DeploymentStatus = "inactive"
)

func (s DeploymentStatus) Valid() bool {
	return s == DeploymentStatusActive || s == DeploymentStatusInactive
}

type Deployment struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string           `gorm:"not null;column:name" json:"name"`
	VersionID uuid.UUID        `gorm:"type:uuid;not null;index;column:version_id" json:"versionId"`
	UserID    uuid.UUID        `gorm:"type:uuid;not null;index;column:user_id" json:"userId"`
	Status    DeploymentStatus `gorm:"not null;default:'active';column:status" json:"status"`
	Config    datatypes.JSON   `gorm:"column:config" json:"config"`
	CreatedAt time.Time        `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time        `gorm:"not null" json:"updatedAt"`
}

func (Deployment) TableName() string { return "deployment" }
