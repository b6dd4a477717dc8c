package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/processhub-backend/internal/data/repos"
	types "github.com/yungbote/processhub-backend/internal/domain"
	"github.com/yungbote/processhub-backend/internal/platform/apierr"
	"github.com/yungbote/processhub-backend/internal/platform/ctxutil"
	"github.com/yungbote/processhub-backend/internal/platform/dbctx"
	"github.com/yungbote/processhub-backend/internal/platform/eventbus"
	"github.com/yungbote/processhub-backend/internal/platform/logger"
)

type CreateDeploymentInput struct {
	Name   string          `json:"name"`
	Config json.RawMessage `json:"config"`
}

type DeploymentService interface {
	Create(ctx context.Context, versionID uuid.UUID, in CreateDeploymentInput) (*types.Deployment, error)
	List(ctx context.Context) ([]*types.Deployment, error)
	ListForVersion(ctx context.Context, versionID uuid.UUID) ([]*types.Deployment, error)
	UpdateStatus(ctx context.Context, deploymentID uuid.UUID, status string) (*types.Deployment, error)
	Delete(ctx context.Context, deploymentID uuid.UUID) error
}

type deploymentService struct {
	db             *gorm.DB
	log            *logger.Logger
	versionRepo    repos.VersionRepo
	deploymentRepo repos.DeploymentRepo
	executionRepo  repos.ExecutionRepo
	bus            eventbus.Bus
}

func NewDeploymentService(
	db *gorm.DB,
	log *logger.Logger,
	versionRepo repos.VersionRepo,
	deploymentRepo repos.DeploymentRepo,
	executionRepo repos.ExecutionRepo,
	bus eventbus.Bus,
) DeploymentService {
	serviceLog := log.With("service", "DeploymentService")
	if bus == nil {
		bus = eventbus.Nop()
	}
	return &deploymentService{
		db:             db,
		log:            serviceLog,
		versionRepo:    versionRepo,
		deploymentRepo: deploymentRepo,
		executionRepo:  executionRepo,
		bus:            bus,
	}
}

func (s *deploymentService) Create(ctx context.Context, versionID uuid.UUID, in CreateDeploymentInput) (*types.Deployment, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apierr.Unauthenticated()
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apierr.InvalidInput("Name is required")
	}
	cfg, err := jsonObjectOrEmpty(in.Config, "Invalid config")
	if err != nil {
		return nil, err
	}

	d := &types.Deployment{
		ID:        uuid.New(),
		Name:      name,
		VersionID: versionID,
		UserID:    userID,
		Status:    types.DeploymentStatusActive,
		Config:    cfg,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		v, err := s.versionRepo.GetByID(dbc, versionID)
		if err != nil {
			return err
		}
		if v == nil {
			return apierr.NotFound()
		}
		_, err = s.deploymentRepo.Create(dbc, []*types.Deployment{d})
		return err
	})
	if err != nil {
		return nil, mapStoreError(err)
	}

	s.log.Info("Deployment created", "deployment_id", d.ID, "version_id", versionID, "user_id", userID)
	s.publish(ctx, eventbus.EventDeploymentCreated, userID, d)
	return d, nil
}

func (s *deploymentService) List(ctx context.Context) ([]*types.Deployment, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apierr.Unauthenticated()
	}
	rows, err := s.deploymentRepo.GetByUserID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, fmt.Errorf("list deployments: %w", err)
	}
	return rows, nil
}

// ListForVersion returns only the caller's deployments of the version; an
// unknown version yields an empty list.
func (s *deploymentService) ListForVersion(ctx context.Context, versionID uuid.UUID) ([]*types.Deployment, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apierr.Unauthenticated()
	}
	rows, err := s.deploymentRepo.GetByVersionIDForUser(dbctx.Context{Ctx: ctx}, versionID, userID)
	if err != nil {
		return nil, fmt.Errorf("list version deployments: %w", err)
	}
	return rows, nil
}

func (s *deploymentService) UpdateStatus(ctx context.Context, deploymentID uuid.UUID, status string) (*types.Deployment, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apierr.Unauthenticated()
	}
	next := types.DeploymentStatus(strings.TrimSpace(status))
	if !next.Valid() {
		return nil, apierr.InvalidInput("Invalid status")
	}

	var out *types.Deployment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		ok, err := s.deploymentRepo.UpdateStatus(dbc, deploymentID, userID, next)
		if err != nil {
			return err
		}
		if !ok {
			return apierr.NotFound()
		}
		d, err := s.deploymentRepo.GetByIDForUser(dbc, deploymentID, userID)
		if err != nil {
			return err
		}
		if d == nil {
			return apierr.NotFound()
		}
		out = d
		return nil
	})
	if err != nil {
		return nil, mapStoreError(err)
	}

	s.log.Info("Deployment status changed", "deployment_id", deploymentID, "status", next)
	s.publish(ctx, eventbus.EventDeploymentStatusChanged, userID, out)
	return out, nil
}

// Delete removes the deployment and its executions atomically.
func (s *deploymentService) Delete(ctx context.Context, deploymentID uuid.UUID) error {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return apierr.Unauthenticated()
	}

	var removed int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		d, err := s.deploymentRepo.GetByIDForUser(dbc, deploymentID, userID)
		if err != nil {
			return err
		}
		if d == nil {
			return apierr.NotFound()
		}
		n, err := s.executionRepo.DeleteByDeploymentID(dbc, deploymentID)
		if err != nil {
			return err
		}
		removed = n
		ok, err := s.deploymentRepo.DeleteForUser(dbc, deploymentID, userID)
		if err != nil {
			return err
		}
		if !ok {
			return apierr.NotFound()
		}
		return nil
	})
	if err != nil {
		return mapStoreError(err)
	}

	s.log.Info("Deployment deleted", "deployment_id", deploymentID, "executions_removed", removed)
	s.publish(ctx, eventbus.EventDeploymentDeleted, userID, map[string]any{"id": deploymentID})
	return nil
}

func (s *deploymentService) publish(ctx context.Context, typ eventbus.EventType, userID uuid.UUID, data any) {
	publishEvent(ctx, s.log, s.bus, typ, userID, data)
}

// publishEvent is best effort; a bus failure never fails the request.
func publishEvent(ctx context.Context, log *logger.Logger, bus eventbus.Bus, typ eventbus.EventType, userID uuid.UUID, data any) {
	if bus == nil {
		return
	}
	evt := eventbus.Event{Type: typ, Channel: userID.String(), Data: data}
	if err := bus.Publish(ctx, evt); err != nil {
		log.Warn("Event publish failed", "event", typ, "error", err)
	}
}
