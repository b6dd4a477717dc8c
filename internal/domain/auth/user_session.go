package auth

import (
	"time"

	"github.com/google/uuid"
)

// UserSession backs one session cookie. A signed token is only honored while
// its row exists, is unrevoked and unexpired.
type UserSession struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"userId"`
	ExpiresAt time.Time  `gorm:"not null;index;column:expires_at" json:"expiresAt"`
	RevokedAt *time.Time `gorm:"column:revoked_at" json:"revokedAt,omitempty"`
	UserAgent string     `gorm:"column:user_agent" json:"userAgent,omitempty"`
	CreatedAt time.Time  `gorm:"not null" json:"createdAt"`
}

func (UserSession) TableName() string { return "user_session" }

func (s *UserSession) Active(now time.Time) bool {
	return s != nil && s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
