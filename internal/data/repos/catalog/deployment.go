package catalog

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/processhub-backend/internal/domain"
	"github.com/yungbote/processhub-backend/internal/platform/dbctx"
	"github.com/yungbote/processhub-backend/internal/platform/logger"
)

// DeploymentRepo reads are always scoped to an owner; a foreign row looks
// exactly like a missing one.
type DeploymentRepo interface {
	Create(dbc dbctx.Context, deployments []*types.Deployment) ([]*types.Deployment, error)
	GetByIDForUser(dbc dbctx.Context, deploymentID, userID uuid.UUID) (*types.Deployment, error)
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) ([]*types.Deployment, error)
	GetByVersionIDForUser(dbc dbctx.Context, versionID, userID uuid.UUID) ([]*types.Deployment, error)
	UpdateStatus(dbc dbctx.Context, deploymentID, userID uuid.UUID, status types.DeploymentStatus) (bool, error)
	DeleteForUser(dbc dbctx.Context, deploymentID, userID uuid.UUID) (bool, error)
}

type deploymentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDeploymentRepo(db *gorm.DB, baseLog *logger.Logger) DeploymentRepo {
	repoLog := baseLog.With("repo", "DeploymentRepo")
	return &deploymentRepo{db: db, log: repoLog}
}

func (r *deploymentRepo) Create(dbc dbctx.Context, deployments []*types.Deployment) ([]*types.Deployment, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if len(deployments) == 0 {
		return []*types.Deployment{}, nil
	}
	for _, d := range deployments {
		if d == nil {
			continue
		}
		if d.ID == uuid.Nil {
			d.ID = uuid.New()
		}
		if d.Status == "" {
			d.Status = types.DeploymentStatusActive
		}
		if len(d.Config) == 0 {
			d.Config = emptyObject()
		}
	}

	if err := transaction.WithContext(dbc.Ctx).Create(&deployments).Error; err != nil {
		return nil, err
	}
	return deployments, nil
}

// GetByIDForUser returns nil, nil when the deployment is missing or owned by
// someone else.
func (r *deploymentRepo) GetByIDForUser(dbc dbctx.Context, deploymentID, userID uuid.UUID) (*types.Deployment, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var d types.Deployment
	err := transaction.WithContext(dbc.Ctx).
		Where("id = ? AND user_id = ?", deploymentID, userID).
		Take(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *deploymentRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) ([]*types.Deployment, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	results := []*types.Deployment{}
	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *deploymentRepo) GetByVersionIDForUser(dbc dbctx.Context, versionID, userID uuid.UUID) ([]*types.Deployment, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	results := []*types.Deployment{}
	if err := transaction.WithContext(dbc.Ctx).
		Where("version_id = ? AND user_id = ?", versionID, userID).
		Order("created_at DESC").
		Order("id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// UpdateStatus reports false when no owned row matched.
func (r *deploymentRepo) UpdateStatus(dbc dbctx.Context, deploymentID, userID uuid.UUID, status types.DeploymentStatus) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(dbc.Ctx).
		Model(&types.Deployment{}).
		Where("id = ? AND user_id = ?", deploymentID, userID).
		Updates(map[string]any{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteForUser reports false when no owned row matched. Executions must be
// removed first, inside the same transaction.
func (r *deploymentRepo) DeleteForUser(dbc dbctx.Context, deploymentID, userID uuid.UUID) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(dbc.Ctx).
		Where("id = ? AND user_id = ?", deploymentID, userID).
		Delete(&types.Deployment{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
