package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Version is a release of a Process pinned to a commit. (process_id, version)
// is intentionally not unique.
type Version struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ProcessID  uuid.UUID      `gorm:"type:uuid;not null;index;column:process_id" json:"processId"`
	Version    string         `gorm:"not null;column:version" json:"version"`
	CommitHash string         `gorm:"not null;column:commit_hash" json:"commitHash"`
	Metadata   datatypes.JSON `gorm:"column:metadata" json:"metadata"`
	CreatedAt  time.Time      `gorm:"not null;index" json:"createdAt"`
}

func (Version) TableName() string { return "version" }
