package catalog

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/processhub-backend/internal/domain"
	"github.com/yungbote/processhub-backend/internal/platform/dbctx"
	"github.com/yungbote/processhub-backend/internal/platform/logger"
)

type ExecutionRepo interface {
	Create(dbc dbctx.Context, executions []*types.Execution) ([]*types.Execution, error)
	UpdateFields(dbc dbctx.Context, executionID uuid.UUID, updates map[string]any) error
	GetByID(dbc dbctx.Context, executionID uuid.UUID) (*types.Execution, error)
	GetByIDForUser(dbc dbctx.Context, executionID, userID uuid.UUID) (*types.Execution, error)
	GetByDeploymentID(dbc dbctx.Context, deploymentID uuid.UUID) ([]*types.Execution, error)
	DeleteByDeploymentID(dbc dbctx.Context, deploymentID uuid.UUID) (int64, error)
}

type executionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExecutionRepo(db *gorm.DB, baseLog *logger.Logger) ExecutionRepo {
	repoLog := baseLog.With("repo", "ExecutionRepo")
	return &executionRepo{db: db, log: repoLog}
}

func (r *executionRepo) Create(dbc dbctx.Context, executions []*types.Execution) ([]*types.Execution, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if len(executions) == 0 {
		return []*types.Execution{}, nil
	}
	for _, e := range executions {
		if e == nil {
			continue
		}
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		if len(e.InputMetadata) == 0 {
			e.InputMetadata = emptyObject()
		}
	}

	if err := transaction.WithContext(dbc.Ctx).Create(&executions).Error; err != nil {
		return nil, err
	}
	return executions, nil
}

func (r *executionRepo) UpdateFields(dbc dbctx.Context, executionID uuid.UUID, updates map[string]any) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.Execution{}).
		Where("id = ?", executionID).
		Updates(updates).Error
}

func (r *executionRepo) GetByID(dbc dbctx.Context, executionID uuid.UUID) (*types.Execution, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var e types.Execution
	err := transaction.WithContext(dbc.Ctx).
		Where("id = ?", executionID).
		Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetByIDForUser returns nil, nil for a missing or foreign execution.
func (r *executionRepo) GetByIDForUser(dbc dbctx.Context, executionID, userID uuid.UUID) (*types.Execution, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var e types.Execution
	err := transaction.WithContext(dbc.Ctx).
		Where("id = ? AND user_id = ?", executionID, userID).
		Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetByDeploymentID returns executions newest first.
func (r *executionRepo) GetByDeploymentID(dbc dbctx.Context, deploymentID uuid.UUID) ([]*types.Execution, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	results := []*types.Execution{}
	if err := transaction.WithContext(dbc.Ctx).
		Where("deployment_id = ?", deploymentID).
		Order("started_at DESC").
		Order("id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *executionRepo) DeleteByDeploymentID(dbc dbctx.Context, deploymentID uuid.UUID) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(dbc.Ctx).
		Where("deployment_id = ?", deploymentID).
		Delete(&types.Execution{})
	return res.RowsAffected, res.Error
}
