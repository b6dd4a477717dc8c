package catalog

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/processhub-backend/internal/domain"
	"github.com/yungbote/processhub-backend/internal/platform/dbctx"
	"github.com/yungbote/processhub-backend/internal/platform/logger"
)

type ProcessRepo interface {
	Create(dbc dbctx.Context, processes []*types.Process) ([]*types.Process, error)
	GetByID(dbc dbctx.Context, processID uuid.UUID) (*types.Process, error)
	GetByIDs(dbc dbctx.Context, processIDs []uuid.UUID) ([]*types.Process, error)
	List(dbc dbctx.Context) ([]*types.Process, error)
}

type processRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProcessRepo(db *gorm.DB, baseLog *logger.Logger) ProcessRepo {
	repoLog := baseLog.With("repo", "ProcessRepo")
	return &processRepo{db: db, log: repoLog}
}

func (r *processRepo) Create(dbc dbctx.Context, processes []*types.Process) ([]*types.Process, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if len(processes) == 0 {
		return []*types.Process{}, nil
	}
	for _, p := range processes {
		if p == nil {
			continue
		}
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		if len(p.Metadata) == 0 {
			p.Metadata = emptyObject()
		}
	}

	if err := transaction.WithContext(dbc.Ctx).Create(&processes).Error; err != nil {
		return nil, err
	}
	return processes, nil
}

// GetByID returns nil, nil when the process does not exist.
func (r *processRepo) GetByID(dbc dbctx.Context, processID uuid.UUID) (*types.Process, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var p types.Process
	err := transaction.WithContext(dbc.Ctx).
		Where("id = ?", processID).
		Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *processRepo) GetByIDs(dbc dbctx.Context, processIDs []uuid.UUID) ([]*types.Process, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Process
	if len(processIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(dbc.Ctx).
		Where("id IN ?", processIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// List returns every process, newest first.
func (r *processRepo) List(dbc dbctx.Context) ([]*types.Process, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	results := []*types.Process{}
	if err := transaction.WithContext(dbc.Ctx).
		Order("created_at DESC").
		Order("id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
