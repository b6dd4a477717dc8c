package catalog

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/processhub-backend/internal/domain"
	"github.com/yungbote/processhub-backend/internal/platform/dbctx"
	"github.com/yungbote/processhub-backend/internal/platform/logger"
)

type VersionRepo interface {
	Create(dbc dbctx.Context, versions []*types.Version) ([]*types.Version, error)
	GetByID(dbc dbctx.Context, versionID uuid.UUID) (*types.Version, error)
	GetByProcessID(dbc dbctx.Context, processID uuid.UUID) ([]*types.Version, error)
}

type versionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVersionRepo(db *gorm.DB, baseLog *logger.Logger) VersionRepo {
	repoLog := baseLog.With("repo", "VersionRepo")
	return &versionRepo{db: db, log: repoLog}
}

func (r *versionRepo) Create(dbc dbctx.Context, versions []*types.Version) ([]*types.Version, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if len(versions) == 0 {
		return []*types.Version{}, nil
	}
	for _, v := range versions {
		if v == nil {
			continue
		}
		if v.ID == uuid.Nil {
			v.ID = uuid.New()
		}
		if len(v.Metadata) == 0 {
			v.Metadata = emptyObject()
		}
	}

	if err := transaction.WithContext(dbc.Ctx).Create(&versions).Error; err != nil {
		return nil, err
	}
	return versions, nil
}

// GetByID returns nil, nil when the version does not exist.
func (r *versionRepo) GetByID(dbc dbctx.Context, versionID uuid.UUID) (*types.Version, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var v types.Version
	err := transaction.WithContext(dbc.Ctx).
		Where("id = ?", versionID).
		Take(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// GetByProcessID returns the versions of a process, newest first.
func (r *versionRepo) GetByProcessID(dbc dbctx.Context, processID uuid.UUID) ([]*types.Version, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	results := []*types.Version{}
	if err := transaction.WithContext(dbc.Ctx).
		Where("process_id = ?", processID).
		Order("created_at DESC").
		Order("id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
