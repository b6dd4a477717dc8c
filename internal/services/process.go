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
	"github.com/yungbote/processhub-backend/internal/platform/logger"
)

type CreateProcessInput struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Type          string          `json:"type"`
	RepositoryURL string          `json:"repositoryUrl"`
	Metadata      json.RawMessage `json:"metadata"`
}

type CreateVersionInput struct {
	Version    string          `json:"version"`
	CommitHash string          `json:"commitHash"`
	Metadata   json.RawMessage `json:"metadata"`
}

// ProcessDetail is a process with its versions, newest first.
type ProcessDetail struct {
	*types.Process
	Versions []*types.Version `json:"versions"`
}

type ProcessService interface {
	List(ctx context.Context) ([]*types.Process, error)
	Get(ctx context.Context, processID uuid.UUID) (*ProcessDetail, error)
	Create(ctx context.Context, in CreateProcessInput) (*types.Process, error)
	CreateVersion(ctx context.Context, processID uuid.UUID, in CreateVersionInput) (*types.Version, error)
}

type processService struct {
	db          *gorm.DB
	log         *logger.Logger
	processRepo repos.ProcessRepo
	versionRepo repos.VersionRepo
}

func NewProcessService(
	db *gorm.DB,
	log *logger.Logger,
	processRepo repos.ProcessRepo,
	versionRepo repos.VersionRepo,
) ProcessService {
	serviceLog := log.With("service", "ProcessService")
	return &processService{
		db:          db,
		log:         serviceLog,
		processRepo: processRepo,
		versionRepo: versionRepo,
	}
}

func (s *processService) List(ctx context.Context) ([]*types.Process, error) {
	rows, err := s.processRepo.List(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}
	return rows, nil
}

func (s *processService) Get(ctx context.Context, processID uuid.UUID) (*ProcessDetail, error) {
	dbc := dbctx.Context{Ctx: ctx}
	p, err := s.processRepo.GetByID(dbc, processID)
	if err != nil {
		return nil, fmt.Errorf("load process: %w", err)
	}
	if p == nil {
		return nil, apierr.NotFound()
	}
	versions, err := s.versionRepo.GetByProcessID(dbc, processID)
	if err != nil {
		return nil, fmt.Errorf("load versions: %w", err)
	}
	return &ProcessDetail{Process: p, Versions: versions}, nil
}

func (s *processService) Create(ctx context.Context, in CreateProcessInput) (*types.Process, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apierr.Unauthenticated()
	}

	name := strings.TrimSpace(in.Name)
	description := strings.TrimSpace(in.Description)
	repoURL := strings.TrimSpace(in.RepositoryURL)
	switch {
	case name == "":
		return nil, apierr.InvalidInput("Name is required")
	case description == "":
		return nil, apierr.InvalidInput("Description is required")
	case repoURL == "":
		return nil, apierr.InvalidInput("Repository URL is required")
	}
	processType := types.ProcessType(strings.TrimSpace(in.Type))
	if !processType.Valid() {
		return nil, apierr.InvalidInput("Invalid process type")
	}
	meta, err := jsonObjectOrEmpty(in.Metadata, "Invalid metadata")
	if err != nil {
		return nil, err
	}

	p := &types.Process{
		ID:            uuid.New(),
		Name:          name,
		Description:   description,
		Type:          processType,
		RepositoryURL: repoURL,
		Metadata:      meta,
		UserID:        userID,
	}
	if _, err := s.processRepo.Create(dbctx.Context{Ctx: ctx}, []*types.Process{p}); err != nil {
		return nil, mapStoreError(err)
	}
	s.log.Info("Process created", "process_id", p.ID, "user_id", userID)
	return p, nil
}

func (s *processService) CreateVersion(ctx context.Context, processID uuid.UUID, in CreateVersionInput) (*types.Version, error) {
	label := strings.TrimSpace(in.Version)
	commit := strings.TrimSpace(in.CommitHash)
	switch {
	case label == "":
		return nil, apierr.InvalidInput("Version is required")
	case commit == "":
		return nil, apierr.InvalidInput("Commit hash is required")
	}
	meta, err := jsonObjectOrEmpty(in.Metadata, "Invalid metadata")
	if err != nil {
		return nil, err
	}

	v := &types.Version{
		ID:         uuid.New(),
		ProcessID:  processID,
		Version:    label,
		CommitHash: commit,
		Metadata:   meta,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		p, err := s.processRepo.GetByID(dbc, processID)
		if err != nil {
			return err
		}
		if p == nil {
			return apierr.NotFound()
		}
		_, err = s.versionRepo.Create(dbc, []*types.Version{v})
		return err
	})
	if err != nil {
		return nil, mapStoreError(err)
	}
	s.log.Info("Version created", "process_id", processID, "version_id", v.ID)
	return v, nil
}
