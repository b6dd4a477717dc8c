package auth

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/processhub-backend/internal/domain"
	"github.com/yungbote/processhub-backend/internal/platform/dbctx"
	"github.com/yungbote/processhub-backend/internal/platform/logger"
)

type UserSessionRepo interface {
	Create(dbc dbctx.Context, sessions []*types.UserSession) ([]*types.UserSession, error)
	GetByID(dbc dbctx.Context, sessionID uuid.UUID) (*types.UserSession, error)
	Revoke(dbc dbctx.Context, sessionID uuid.UUID, at time.Time) error
	DeleteExpiredByUserID(dbc dbctx.Context, userID uuid.UUID, before time.Time) (int64, error)
}

type userSessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserSessionRepo(db *gorm.DB, baseLog *logger.Logger) UserSessionRepo {
	repoLog := baseLog.With("repo", "UserSessionRepo")
	return &userSessionRepo{db: db, log: repoLog}
}

func (r *userSessionRepo) Create(dbc dbctx.Context, sessions []*types.UserSession) ([]*types.UserSession, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if len(sessions) == 0 {
		return []*types.UserSession{}, nil
	}
	for _, s := range sessions {
		if s != nil && s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
	}

	if err := transaction.WithContext(dbc.Ctx).Create(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// GetByID returns nil, nil for an unknown session.
func (r *userSessionRepo) GetByID(dbc dbctx.Context, sessionID uuid.UUID) (*types.UserSession, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var s types.UserSession
	err := transaction.WithContext(dbc.Ctx).
		Where("id = ?", sessionID).
		Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *userSessionRepo) Revoke(dbc dbctx.Context, sessionID uuid.UUID, at time.Time) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.UserSession{}).
		Where("id = ? AND revoked_at IS NULL", sessionID).
		Update("revoked_at", at).Error
}

func (r *userSessionRepo) DeleteExpiredByUserID(dbc dbctx.Context, userID uuid.UUID, before time.Time) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(dbc.Ctx).
		Where("user_id = ? AND expires_at < ?", userID, before).
		Delete(&types.UserSession{})
	return res.RowsAffected, res.Error
}
